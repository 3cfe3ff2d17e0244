// Package coupon owns a member's coupon wallet and the discount computation
// for the order in progress.
package coupon

import (
	"errors"
	"strings"
	"time"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
)

// Redemption validation outcomes. These are recoverable conditions the edge
// maps to user-facing responses, not failures.
var (
	ErrCouponNotFound      = errors.New("coupon code not found")
	ErrCouponAlreadyIssued = errors.New("coupon already issued to this wallet")
)

// Wallet holds a member's issued coupons and the single applied slot.
// AppliedID refers to a wallet coupon by id; empty means nothing applied.
type Wallet struct {
	Coupons   []domain.Coupon `json:"coupons"`
	AppliedID string          `json:"applied_id,omitempty"`
}

// Add issues a coupon into the wallet. Idempotent by id: a coupon already
// present is left untouched and no duplicate is appended.
func (w *Wallet) Add(c domain.Coupon) {
	for _, existing := range w.Coupons {
		if existing.ID == c.ID {
			return
		}
	}
	w.Coupons = append(w.Coupons, c)
}

// Contains reports whether the wallet already holds the coupon, by id or by
// code (codes are case-insensitive unique per wallet).
func (w *Wallet) Contains(id, code string) bool {
	for _, c := range w.Coupons {
		if c.ID == id || strings.EqualFold(c.Code, code) {
			return true
		}
	}
	return false
}

// Remove drops the coupon from the wallet. If it was the applied coupon, the
// applied slot is cleared as well; an applied-but-removed coupon must never
// stay applied.
func (w *Wallet) Remove(id string) {
	for i := range w.Coupons {
		if w.Coupons[i].ID == id {
			w.Coupons = append(w.Coupons[:i], w.Coupons[i+1:]...)
			break
		}
	}
	if w.AppliedID == id {
		w.AppliedID = ""
	}
}

// Apply sets the applied slot; nil clears it. No validation happens here: an
// out-of-window coupon can sit applied and simply yields a zero discount.
func (w *Wallet) Apply(c *domain.Coupon) {
	if c == nil {
		w.AppliedID = ""
		return
	}
	w.AppliedID = c.ID
}

// Applied returns the currently applied wallet coupon, or nil.
func (w *Wallet) Applied() *domain.Coupon {
	if w.AppliedID == "" {
		return nil
	}
	for i := range w.Coupons {
		if w.Coupons[i].ID == w.AppliedID {
			return &w.Coupons[i]
		}
	}
	return nil
}

// Use marks the wallet coupon as consumed, stamping UsedAt, and clears the
// applied slot if it held that coupon. Called exactly once per completed
// order that consumed a coupon; calling it again on an already-used coupon
// is a no-op.
func (w *Wallet) Use(id string) {
	for i := range w.Coupons {
		if w.Coupons[i].ID == id {
			if !w.Coupons[i].IsUsed {
				now := time.Now()
				w.Coupons[i].IsUsed = true
				w.Coupons[i].UsedAt = &now
			}
			break
		}
	}
	if w.AppliedID == id {
		w.AppliedID = ""
	}
}

// Discount computes the discount the applied coupon grants for orderAmount.
// Zero when nothing is applied, the coupon is outside its validity window or
// already used, or the order misses the minimum (boundary inclusive).
// Percent discounts round half up and are clamped to MaxDiscountAmount when
// set; fixed discounts are returned as-is, even beyond the order amount
// (the checkout layer clamps the payable total). Never negative.
func (w *Wallet) Discount(orderAmount int64) int64 {
	c := w.Applied()
	if c == nil {
		return 0
	}
	if c.IsUsed || !c.ValidAt(time.Now()) {
		return 0
	}
	if c.MinOrderAmount > 0 && orderAmount < c.MinOrderAmount {
		return 0
	}

	var discount int64
	switch c.DiscountType {
	case domain.DiscountPercent:
		discount = (orderAmount*c.DiscountValue + 50) / 100
		if c.MaxDiscountAmount > 0 && discount > c.MaxDiscountAmount {
			discount = c.MaxDiscountAmount
		}
	case domain.DiscountFixed:
		discount = c.DiscountValue
	}

	if discount < 0 {
		return 0
	}
	return discount
}
