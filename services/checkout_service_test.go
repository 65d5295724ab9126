package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spicehut/food-order-app/cart"
	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

// failingStore rejects every write under one collection, inside and
// outside transactions, to exercise the dual-write rollback.
type failingStore struct {
	store.Store
	failCollection string
}

func (f *failingStore) Set(ctx context.Context, path string, value any) error {
	if strings.HasPrefix(path, f.failCollection+"/") {
		return assert.AnError
	}
	return f.Store.Set(ctx, path, value)
}

func (f *failingStore) Transact(ctx context.Context, fn func(tx store.Store) error) error {
	return f.Store.Transact(ctx, func(tx store.Store) error {
		return fn(&failingStore{Store: tx, failCollection: f.failCollection})
	})
}

// blockingStore parks every transaction until released, so a second
// checkout can race the first.
type blockingStore struct {
	store.Store
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) Transact(ctx context.Context, fn func(tx store.Store) error) error {
	b.entered <- struct{}{}
	<-b.release
	return b.Store.Transact(ctx, fn)
}

func validContact() models.Contact {
	return models.Contact{
		Name:    "Arjun Mehta",
		Email:   "arjun@example.com",
		Phone:   "9876543210",
		Address: "12 MG Road, Bengaluru",
	}
}

func cartWith(items ...models.Product) *cart.Cart {
	c := cart.New(cart.NewMemoryStorage())
	for _, p := range items {
		c.Add(p)
	}
	return c
}

func TestPlaceOrderSuccess(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	svc := NewCheckoutService(st)

	c := cartWith(
		models.Product{ID: "p1", Name: "Paneer Tikka", Price: 250},
		models.Product{ID: "p2", Name: "Naan", Price: 50},
	)

	res, err := svc.PlaceOrder(context.Background(), c, CheckoutRequest{
		UserID:        "u1",
		Contact:       validContact(),
		PaymentMethod: "UPI",
	})
	assert.NoError(t, err)
	assert.Equal(t, StateSucceeded, res.State)
	assert.NotEmpty(t, res.OrderID)
	assert.Equal(t, 0, c.Len(), "cart should be cleared after success")

	orders, err := st.Get(context.Background(), OrdersCollection)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)

	var order models.Order
	assert.NoError(t, orders.Decode(res.OrderID, &order))
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, 300.0, order.Amounts.Subtotal)
	assert.Equal(t, 0.0, order.Amounts.DeliveryFee)
	assert.Equal(t, 315.0, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)

	payments, err := st.Get(context.Background(), PaymentsCollection)
	assert.NoError(t, err)
	assert.Len(t, payments, 1)
	for key := range payments {
		var payment models.Payment
		assert.NoError(t, payments.Decode(key, &payment))
		assert.Equal(t, res.OrderID, payment.OrderID)
		assert.Equal(t, order.TotalAmount, payment.Amount)
		assert.Equal(t, models.PaymentStatusSuccess, payment.Status)
		assert.Equal(t, "Arjun Mehta", payment.Payer.Name)
	}
}

func TestPlaceOrderGuest(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	svc := NewCheckoutService(st)

	c := cartWith(models.Product{ID: "p1", Name: "Dal Makhani", Price: 180})

	res, err := svc.PlaceOrder(context.Background(), c, CheckoutRequest{
		Contact:       validContact(),
		PaymentMethod: "COD",
		NewAddress:    true,
	})
	assert.NoError(t, err)
	assert.Equal(t, StateSucceeded, res.State)

	orders, _ := st.Get(context.Background(), OrdersCollection)
	var order models.Order
	assert.NoError(t, orders.Decode(res.OrderID, &order))
	assert.Equal(t, models.GuestUserID, order.UserID)

	// guests never get an address book entry
	addresses, err := st.Get(context.Background(), "users/guest/addresses")
	assert.NoError(t, err)
	assert.Empty(t, addresses)
}

func TestPlaceOrderSavesNewAddress(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	svc := NewCheckoutService(st)

	c := cartWith(models.Product{ID: "p1", Name: "Biryani", Price: 220})

	_, err := svc.PlaceOrder(context.Background(), c, CheckoutRequest{
		UserID:        "u1",
		Contact:       validContact(),
		PaymentMethod: "UPI",
		NewAddress:    true,
	})
	assert.NoError(t, err)

	addresses, err := st.Get(context.Background(), "users/u1/addresses")
	assert.NoError(t, err)
	assert.Len(t, addresses, 1)
}

func TestPlaceOrderValidation(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	svc := NewCheckoutService(st)

	empty := cart.New(cart.NewMemoryStorage())
	res, err := svc.PlaceOrder(context.Background(), empty, CheckoutRequest{
		Contact: validContact(), PaymentMethod: "UPI",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, StateIdle, res.State)

	c := cartWith(models.Product{ID: "p1", Name: "Samosa", Price: 30})
	contact := validContact()
	contact.Phone = "  "
	res, err = svc.PlaceOrder(context.Background(), c, CheckoutRequest{
		Contact: contact, PaymentMethod: "UPI",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, StateIdle, res.State)
	assert.Equal(t, 1, c.Len(), "cart untouched on validation failure")

	orders, _ := st.Get(context.Background(), OrdersCollection)
	assert.Empty(t, orders, "no writes before validation passes")
}

func TestPlaceOrderPaymentFailureRollsBack(t *testing.T) {
	utils.InitLogger()
	inner := store.NewMemoryStore()
	st := &failingStore{Store: inner, failCollection: PaymentsCollection}
	svc := NewCheckoutService(st)

	c := cartWith(models.Product{ID: "p1", Name: "Thali", Price: 150})

	res, err := svc.PlaceOrder(context.Background(), c, CheckoutRequest{
		UserID:        "u1",
		Contact:       validContact(),
		PaymentMethod: "Card",
	})
	assert.Error(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, 1, c.Len(), "cart preserved for retry")

	orders, _ := inner.Get(context.Background(), OrdersCollection)
	assert.Empty(t, orders, "order write must roll back with the payment")
}

func TestPlaceOrderBusyGuard(t *testing.T) {
	utils.InitLogger()
	inner := store.NewMemoryStore()
	st := &blockingStore{
		Store:   inner,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewCheckoutService(st)

	c := cartWith(models.Product{ID: "p1", Name: "Kulfi", Price: 60})
	req := CheckoutRequest{Contact: validContact(), PaymentMethod: "UPI"}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstRes *CheckoutResult
	var firstErr error
	go func() {
		defer wg.Done()
		firstRes, firstErr = svc.PlaceOrder(context.Background(), c, req)
	}()

	<-st.entered // first attempt is mid-persist

	_, err := svc.PlaceOrder(context.Background(), c, req)
	assert.ErrorIs(t, err, ErrCheckoutBusy)

	close(st.release)
	wg.Wait()
	assert.NoError(t, firstErr)
	assert.Equal(t, StateSucceeded, firstRes.State)
}

func TestPlaceOrderWithPromoDiscount(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	svc := NewCheckoutService(st)

	c := cartWith(models.Product{ID: "p1", Name: "Feast Box", Price: 400})

	res, err := svc.PlaceOrder(context.Background(), c, CheckoutRequest{
		UserID:        "u1",
		Contact:       validContact(),
		PaymentMethod: "UPI",
		Promo: &AppliedPromo{
			Promo:          models.PromoCode{Code: "SAVE10", DiscountPercent: 10},
			DiscountAmount: 40,
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 400.0, res.Amounts.Subtotal)
	assert.Equal(t, 40.0, res.Amounts.Discount)
	assert.Equal(t, 18.0, res.Amounts.Tax)
	assert.Equal(t, 378.0, res.Amounts.Total)
}
