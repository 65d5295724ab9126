package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

func seedOffer(t *testing.T, st store.Store, promo models.PromoCode) {
	t.Helper()
	if _, err := st.Push(context.Background(), OffersCollection, promo); err != nil {
		t.Fatalf("seeding offer: %v", err)
	}
}

func dateOffset(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestApplyValidPromo(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	seedOffer(t, st, models.PromoCode{
		Code:            "SAVE10",
		DiscountPercent: 10,
		ExpiryDate:      dateOffset(30),
		Status:          models.PromoStatusActive,
	})

	svc := NewPromoService(st)
	applied, err := svc.Apply(context.Background(), "SAVE10", 300)
	assert.NoError(t, err)
	assert.Equal(t, 30.0, applied.DiscountAmount)
	assert.Equal(t, "SAVE10", applied.Promo.Code)
}

func TestApplyIsCaseInsensitive(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	seedOffer(t, st, models.PromoCode{
		Code:            "Save10",
		DiscountPercent: 10,
		ExpiryDate:      dateOffset(1),
		Status:          models.PromoStatusActive,
	})

	svc := NewPromoService(st)
	applied, err := svc.Apply(context.Background(), "sAvE10", 100)
	assert.NoError(t, err)
	assert.Equal(t, 10.0, applied.DiscountAmount)
}

func TestApplyUnknownCode(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()

	svc := NewPromoService(st)
	_, err := svc.Apply(context.Background(), "NOPE", 100)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestApplyEmptyCode(t *testing.T) {
	utils.InitLogger()
	svc := NewPromoService(store.NewMemoryStore())

	_, err := svc.Apply(context.Background(), "   ", 100)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestApplyInactiveCode(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	seedOffer(t, st, models.PromoCode{
		Code:            "PAUSED",
		DiscountPercent: 15,
		ExpiryDate:      dateOffset(30),
		Status:          models.PromoStatusInactive,
	})

	svc := NewPromoService(st)
	_, err := svc.Apply(context.Background(), "PAUSED", 100)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestApplyExpiryBoundary(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	// active status but expired yesterday: expiry wins over status
	seedOffer(t, st, models.PromoCode{
		Code:            "OLD",
		DiscountPercent: 20,
		ExpiryDate:      dateOffset(-1),
		Status:          models.PromoStatusActive,
	})
	// expiring today is still good
	seedOffer(t, st, models.PromoCode{
		Code:            "LASTDAY",
		DiscountPercent: 20,
		ExpiryDate:      dateOffset(0),
		Status:          models.PromoStatusActive,
	})

	svc := NewPromoService(st)

	_, err := svc.Apply(context.Background(), "OLD", 100)
	assert.ErrorIs(t, err, ErrExpiredCode)

	applied, err := svc.Apply(context.Background(), "LASTDAY", 100)
	assert.NoError(t, err)
	assert.Equal(t, 20.0, applied.DiscountAmount)
}

func TestSessionPromoReplaceAndRemove(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	seedOffer(t, st, models.PromoCode{
		Code: "TEN", DiscountPercent: 10, ExpiryDate: dateOffset(5), Status: models.PromoStatusActive,
	})
	seedOffer(t, st, models.PromoCode{
		Code: "TWENTY", DiscountPercent: 20, ExpiryDate: dateOffset(5), Status: models.PromoStatusActive,
	})

	svc := NewPromoService(st)
	ctx := context.Background()

	_, err := svc.ApplyForSession(ctx, "s1", "TEN", 100)
	assert.NoError(t, err)
	assert.Equal(t, "TEN", svc.Applied("s1").Promo.Code)

	// applying another code replaces the first, no stacking
	_, err = svc.ApplyForSession(ctx, "s1", "TWENTY", 100)
	assert.NoError(t, err)
	assert.Equal(t, "TWENTY", svc.Applied("s1").Promo.Code)
	assert.Equal(t, 20.0, svc.Applied("s1").DiscountAmount)

	// a failed application keeps the previous promo
	_, err = svc.ApplyForSession(ctx, "s1", "BOGUS", 100)
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, "TWENTY", svc.Applied("s1").Promo.Code)

	svc.Remove("s1")
	assert.Nil(t, svc.Applied("s1"))
}
