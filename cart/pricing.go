package cart

import (
	"math"

	"github.com/spicehut/food-order-app/models"
)

// Pricing policy constants. These are policy, not derived values: orders
// over the threshold ship free, everything else pays the flat fee, and tax
// is a flat rate on the post-discount subtotal.
const (
	FreeDeliveryThreshold = 200.0
	DeliveryFeeFlat       = 40.0
	TaxRate               = 0.05
)

// Subtotal sums price * quantity over the given lines.
func Subtotal(items []models.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// DeliveryFee is zero once the subtotal exceeds the free-delivery
// threshold. The boundary is exclusive: a subtotal of exactly 200 still
// pays the fee.
func DeliveryFee(subtotal float64) float64 {
	if subtotal > FreeDeliveryThreshold {
		return 0
	}
	return DeliveryFeeFlat
}

// Discount is the amount taken off the subtotal for a percent-off promo.
func Discount(subtotal, discountPercent float64) float64 {
	return subtotal * discountPercent / 100
}

// Price computes the full monetary breakdown for the given lines with an
// optional percent-off discount (pass 0 for none). The delivery threshold
// applies to the raw subtotal, before the discount. No intermediate value
// is rounded; rounding happens only at display time, so the cart, order
// and payment records all carry identical amounts.
func Price(items []models.LineItem, discountPercent float64) models.AmountBreakdown {
	subtotal := Subtotal(items)
	discount := Discount(subtotal, discountPercent)
	taxable := math.Max(0, subtotal-discount)
	tax := taxable * TaxRate
	fee := DeliveryFee(subtotal)

	return models.AmountBreakdown{
		Subtotal:    subtotal,
		Discount:    discount,
		Tax:         tax,
		DeliveryFee: fee,
		Total:       taxable + tax + fee,
	}
}
