package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spicehut/food-order-app/cart"
	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrCheckoutBusy = errors.New("checkout already in progress")
)

// Collections written during checkout.
const (
	OrdersCollection   = "orders"
	PaymentsCollection = "payments"
)

// CheckoutState tracks one checkout attempt through its lifecycle.
type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateValidating CheckoutState = "validating"
	StatePersisting CheckoutState = "persisting"
	StateSucceeded  CheckoutState = "succeeded"
	StateFailed     CheckoutState = "failed"
)

// CheckoutRequest carries everything one checkout attempt needs besides
// the cart itself. An empty UserID means guest checkout. NewAddress marks
// the address as one the user has not saved before.
type CheckoutRequest struct {
	UserID        string
	Contact       models.Contact
	PaymentMethod string
	NewAddress    bool
	Promo         *AppliedPromo
}

// CheckoutResult reports where the attempt ended up. OrderID and Amounts
// are only set when State is StateSucceeded.
type CheckoutResult struct {
	State   CheckoutState          `json:"state"`
	OrderID string                 `json:"order_id,omitempty"`
	Amounts models.AmountBreakdown `json:"amounts"`
}

// CheckoutService turns a priced cart into a persisted Order + Payment
// pair. The write sequence is strictly serial: address save (best effort),
// then order, then payment, then cart clear. Order and payment go through
// one store transaction so a payment failure never leaves an orphaned
// order, and the cart is only cleared after both records are down.
type CheckoutService struct {
	store store.Store

	// Timeout bounds the store round-trips of one attempt; a timeout is a
	// failed checkout with the cart preserved.
	Timeout time.Duration

	mu       sync.Mutex
	inflight map[*cart.Cart]struct{}
}

func NewCheckoutService(st store.Store) *CheckoutService {
	return &CheckoutService{
		store:    st,
		Timeout:  15 * time.Second,
		inflight: make(map[*cart.Cart]struct{}),
	}
}

// PlaceOrder runs one checkout attempt for the given cart. A second call
// for the same cart while one is still persisting returns ErrCheckoutBusy
// without touching the store.
func (s *CheckoutService) PlaceOrder(ctx context.Context, c *cart.Cart, req CheckoutRequest) (*CheckoutResult, error) {
	s.mu.Lock()
	if _, busy := s.inflight[c]; busy {
		s.mu.Unlock()
		return &CheckoutResult{State: StateFailed}, ErrCheckoutBusy
	}
	s.inflight[c] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, c)
		s.mu.Unlock()
	}()

	// Validating: no store writes happen past this block unless every
	// precondition holds.
	items := c.Items()
	if err := validateCheckout(items, req.Contact); err != nil {
		return &CheckoutResult{State: StateIdle}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var discountPercent float64
	if req.Promo != nil {
		discountPercent = req.Promo.Promo.DiscountPercent
	}
	amounts := cart.Price(items, discountPercent)

	userID := req.UserID
	if userID == "" {
		userID = models.GuestUserID
	}

	// Persisting, step 1: save a brand-new address for signed-in users.
	// Deliberately best effort; an address bookkeeping failure must not
	// cost the user their order.
	if userID != models.GuestUserID && req.NewAddress {
		addressPath := fmt.Sprintf("users/%s/addresses", userID)
		if _, err := s.store.Push(ctx, addressPath, req.Contact.Address); err != nil {
			utils.ErrorLogger.Printf("Saving address for %s failed, continuing checkout: %v", userID, err)
		}
	}

	// Persisting, steps 2-3: order then payment, one transaction. The
	// payment references the order id generated here and copies the order
	// total verbatim instead of recomputing it.
	orderID := store.NewKey()
	now := time.Now().UTC()
	order := models.Order{
		OrderID:       orderID,
		UserID:        userID,
		Contact:       req.Contact,
		Items:         items,
		Amounts:       amounts,
		TotalAmount:   amounts.Total,
		Status:        models.OrderStatusPlaced,
		OrderDate:     now.Format(time.RFC3339),
		PaymentMethod: req.PaymentMethod,
	}

	transactionID := store.NewKey()
	payment := models.Payment{
		TransactionID: transactionID,
		OrderID:       orderID,
		Payer:         models.Payer{Name: req.Contact.Name, Email: req.Contact.Email},
		Amount:        order.Amounts.Total,
		Method:        req.PaymentMethod,
		Date:          now.Format("2006-01-02"),
		Time:          now.Format("15:04:05"),
		Timestamp:     order.OrderDate,
		// No gateway sits behind this record; Success records the intent
		// at checkout time, it does not verify a charge.
		Status: models.PaymentStatusSuccess,
	}

	err := s.store.Transact(ctx, func(tx store.Store) error {
		if err := tx.Set(ctx, OrdersCollection+"/"+orderID, order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}
		if err := tx.Set(ctx, PaymentsCollection+"/"+transactionID, payment); err != nil {
			return fmt.Errorf("creating payment: %w", err)
		}
		return nil
	})
	if err != nil {
		// cart intentionally NOT cleared: the user retries without
		// re-entering items
		utils.ErrorLogger.Printf("Checkout failed for %s: %v", userID, err)
		return &CheckoutResult{State: StateFailed}, err
	}

	// Persisting, step 4: only now is the cart gone.
	c.Clear()

	utils.InfoLogger.Printf("Order %s placed by %s (total %s)", orderID, userID, utils.DisplayAmount(amounts.Total))
	return &CheckoutResult{
		State:   StateSucceeded,
		OrderID: orderID,
		Amounts: amounts,
	}, nil
}

func validateCheckout(items []models.LineItem, contact models.Contact) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	fields := map[string]string{
		"name":    contact.Name,
		"email":   contact.Email,
		"phone":   contact.Phone,
		"address": contact.Address,
	}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, name)
		}
	}
	return nil
}
