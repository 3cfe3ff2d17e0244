// Package session persists a member's staging state (cart, quote, coupon
// wallet) as a JSON snapshot in a key-value store and exposes the state
// transitions the storefront edge calls into.
package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/cart"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/coupon"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/quote"
)

var ErrStateNotFound = errors.New("session state not found")

// Store is the persistence collaborator: a generic JSON key-value interface.
type Store interface {
	Get(ctx context.Context, userID string) ([]byte, error)
	Set(ctx context.Context, userID string, snapshot []byte) error
	Delete(ctx context.Context, userID string) error
}

// State is the whole mutable state of one member's order-in-progress.
type State struct {
	Cart   cart.Cart     `json:"cart"`
	Quote  quote.Quote   `json:"quote"`
	Wallet coupon.Wallet `json:"wallet"`
}

// decodeState hydrates a snapshot. A corrupt snapshot must never fail the
// session: when the full document does not parse, each slice is decoded
// independently so only the corrupt slice falls back to empty. Coupon dates
// come back from their RFC3339 form through encoding/json.
func decodeState(snapshot []byte) *State {
	state := &State{}
	if err := json.Unmarshal(snapshot, state); err == nil {
		return state
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(snapshot, &raw); err != nil {
		return &State{}
	}

	state = &State{}
	if data, ok := raw["cart"]; ok {
		if err := json.Unmarshal(data, &state.Cart); err != nil {
			state.Cart = cart.Cart{}
		}
	}
	if data, ok := raw["quote"]; ok {
		if err := json.Unmarshal(data, &state.Quote); err != nil {
			state.Quote = quote.Quote{}
		}
	}
	if data, ok := raw["wallet"]; ok {
		if err := json.Unmarshal(data, &state.Wallet); err != nil {
			state.Wallet = coupon.Wallet{}
		}
	}
	return state
}
