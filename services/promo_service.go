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
	ErrInvalidCode = errors.New("invalid promo code")
	ErrExpiredCode = errors.New("promo code has expired")
)

// OffersCollection is where promo records live in the document store.
const OffersCollection = "offers"

// AppliedPromo is the result of a successful promo application. Applying a
// different code replaces the previous one entirely; codes never stack.
type AppliedPromo struct {
	Promo          models.PromoCode `json:"promo"`
	DiscountAmount float64          `json:"discount_amount"`
}

// PromoService validates promo codes against the offers collection. Codes
// are re-validated on every application; nothing is cached between calls,
// so an admin edit takes effect immediately. It also remembers which promo
// each session currently has applied; applying another code replaces it.
type PromoService struct {
	store store.Store

	mu      sync.Mutex
	applied map[string]*AppliedPromo // session id -> current promo
}

func NewPromoService(st store.Store) *PromoService {
	return &PromoService{
		store:   st,
		applied: make(map[string]*AppliedPromo),
	}
}

// Apply looks the code up, checks status and expiry, and returns the
// matched promo with the discount it takes off the given subtotal.
// The code matches case-insensitively against records whose status is
// Active; expiry is then checked separately against today's date, since a
// stored Active status can be stale. A promo expiring today is still good.
func (s *PromoService) Apply(ctx context.Context, code string, subtotal float64) (*AppliedPromo, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidCode
	}

	snap, err := s.store.Get(ctx, OffersCollection)
	if err != nil {
		return nil, fmt.Errorf("loading offers: %w", err)
	}

	var match *models.PromoCode
	for key := range snap {
		var promo models.PromoCode
		if err := snap.Decode(key, &promo); err != nil {
			utils.ErrorLogger.Printf("Skipping malformed offer %s: %v", key, err)
			continue
		}
		if promo.Status == models.PromoStatusActive && strings.EqualFold(promo.Code, code) {
			match = &promo
			break
		}
	}
	if match == nil {
		return nil, ErrInvalidCode
	}

	expiry, err := time.Parse("2006-01-02", match.ExpiryDate)
	if err != nil {
		utils.ErrorLogger.Printf("Offer %s has unparseable expiry %q: %v", match.Code, match.ExpiryDate, err)
		return nil, ErrInvalidCode
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if expiry.Before(today) {
		return nil, ErrExpiredCode
	}

	return &AppliedPromo{
		Promo:          *match,
		DiscountAmount: cart.Discount(subtotal, match.DiscountPercent),
	}, nil
}

// ApplyForSession validates the code and records it as the session's
// current promo, replacing whatever was applied before. On failure the
// previous promo stays untouched.
func (s *PromoService) ApplyForSession(ctx context.Context, sessionID, code string, subtotal float64) (*AppliedPromo, error) {
	promo, err := s.Apply(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.applied[sessionID] = promo
	s.mu.Unlock()
	return promo, nil
}

// Applied returns the session's current promo, or nil.
func (s *PromoService) Applied(sessionID string) *AppliedPromo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied[sessionID]
}

// Remove drops the session's applied promo. Purely local: the store is
// never consulted and the discount simply goes back to zero.
func (s *PromoService) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.applied, sessionID)
}
