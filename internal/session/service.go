package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/coupon"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
)

// CouponSource looks up promo-catalog coupon definitions for redemption.
// Consumers define this interface; the catalog repository implements it.
type CouponSource interface {
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type Service struct {
	store   Store
	coupons CouponSource
	sfg     singleflight.Group // collapses concurrent loads of the same session
}

func NewService(store Store, coupons CouponSource) *Service {
	return &Service{
		store:   store,
		coupons: coupons,
	}
}

// Get loads a member's staging state. A missing snapshot yields a fresh
// empty state; a corrupt one degrades per slice instead of failing.
func (s *Service) Get(ctx context.Context, userID string) (*State, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		return s.load(ctx, userID), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*State), nil
}

func (s *Service) load(ctx context.Context, userID string) *State {
	snapshot, err := s.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			log.Printf("session load error for user %s: %v", userID, err)
		}
		return &State{}
	}
	return decodeState(snapshot)
}

// loadForWrite is the mutation-path load: a missing key yields a fresh
// state, but any other store error aborts the mutation. Writing over a
// snapshot that could not be read would destroy the member's staged state.
func (s *Service) loadForWrite(ctx context.Context, userID string) (*State, error) {
	snapshot, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("load session state failed: %w", err)
	}
	return decodeState(snapshot), nil
}

func (s *Service) save(ctx context.Context, userID string, state *State) error {
	snapshot, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state failed: %w", err)
	}
	if err := s.store.Set(ctx, userID, snapshot); err != nil {
		return fmt.Errorf("persist session state failed: %w", err)
	}
	return nil
}

// mutate runs fn against the loaded state and persists the result.
// Persistence is last-write-wins; event handlers for one session are
// single-threaded at the edge, so no read-modify-write race exists here.
func (s *Service) mutate(ctx context.Context, userID string, fn func(*State) error) (*State, error) {
	state, err := s.loadForWrite(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	if err := s.save(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Service) AddToCart(ctx context.Context, userID string, p domain.Product, quantity int, opts map[string]string) (*State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.Cart.Add(p, quantity, opts)
		return nil
	})
}

func (s *Service) UpdateCartQuantity(ctx context.Context, userID, productID string, quantity int, opts map[string]string) (*State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.Cart.UpdateQuantity(productID, quantity, opts)
		return nil
	})
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, productID string, opts map[string]string) (*State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.Cart.Remove(productID, opts)
		return nil
	})
}

func (s *Service) ClearCart(ctx context.Context, userID string) (*State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.Cart.Clear()
		return nil
	})
}

func (s *Service) AddToQuote(ctx context.Context, userID string, p domain.Product, quantity int, tier domain.Tier) (*State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.Quote.Add(p, quantity, tier)
		return nil
	})
}

func (s *Service) UpdateQuoteQuantity(ctx context.Context, userID, productID string, quantity int) (*State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.Quote.UpdateQuantity(productID, quantity)
		return nil
	})
}

func (s *Service) RemoveFromQuote(ctx context.Context, userID, productID string) (*State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.Quote.Remove(productID)
		return nil
	})
}

func (s *Service) ClearQuote(ctx context.Context, userID string) (*State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.Quote.Clear()
		return nil
	})
}

// RedeemCoupon issues a promo-catalog coupon into the wallet by code.
// Unknown codes and codes already in the wallet surface as the coupon
// package's sentinel errors for the edge to map.
func (s *Service) RedeemCoupon(ctx context.Context, userID, code string) (*State, error) {
	def, err := s.coupons.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, func(state *State) error {
		if state.Wallet.Contains(def.ID, def.Code) {
			return coupon.ErrCouponAlreadyIssued
		}
		state.Wallet.Add(*def)
		return nil
	})
}

// ApplyCoupon selects a wallet coupon for the order in progress; an empty id
// clears the applied slot. Applying a coupon the wallet does not hold is
// rejected.
func (s *Service) ApplyCoupon(ctx context.Context, userID, couponID string) (*State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		if couponID == "" {
			state.Wallet.Apply(nil)
			return nil
		}
		for i := range state.Wallet.Coupons {
			if state.Wallet.Coupons[i].ID == couponID {
				state.Wallet.Apply(&state.Wallet.Coupons[i])
				return nil
			}
		}
		return coupon.ErrCouponNotFound
	})
}

func (s *Service) RemoveCoupon(ctx context.Context, userID, couponID string) (*State, error) {
	return s.mutate(ctx, userID, func(state *State) error {
		state.Wallet.Remove(couponID)
		return nil
	})
}

// FinalizeOrder is the one obligation this layer has at the payment
// boundary: after a confirmed payment it consumes the applied coupon exactly
// once and clears the staging area the order came from. It returns the id of
// the consumed coupon, if any.
func (s *Service) FinalizeOrder(ctx context.Context, userID string, source domain.OrderSource) (string, error) {
	var usedCouponID string
	_, err := s.mutate(ctx, userID, func(state *State) error {
		if applied := state.Wallet.Applied(); applied != nil {
			usedCouponID = applied.ID
			state.Wallet.Use(applied.ID)
		}
		switch source {
		case domain.OrderSourceQuote:
			state.Quote.Clear()
		default:
			state.Cart.Clear()
		}
		return nil
	})
	return usedCouponID, err
}
