package models

// Promo status values as stored in the offers collection.
const (
	PromoStatusActive   = "Active"
	PromoStatusInactive = "Inactive"
	PromoStatusExpired  = "Expired"
)

// PromoCode is a discount record from the offers collection. Codes match
// case-insensitively. ExpiryDate is an ISO date string (YYYY-MM-DD); expiry
// is always re-checked against today even when Status still says Active,
// since the stored status can be stale.
type PromoCode struct {
	Code            string  `json:"code"`
	Description     string  `json:"description"`
	DiscountPercent float64 `json:"discount"`
	ExpiryDate      string  `json:"expiryDate"`
	Status          string  `json:"status"`
}
