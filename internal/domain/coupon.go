package domain

import "time"

// DiscountType distinguishes percentage coupons from fixed-amount coupons.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// CouponStatus is the lifecycle state of a coupon within a wallet.
type CouponStatus string

const (
	CouponAvailable CouponStatus = "available"
	CouponUsed      CouponStatus = "used"
	CouponExpired   CouponStatus = "expired"
)

// Coupon is an issued discount voucher. MinOrderAmount and MaxDiscountAmount
// are optional; zero means "not set". MaxDiscountAmount caps percent-type
// discounts only.
type Coupon struct {
	ID                string       `json:"id"`
	Code              string       `json:"code"`
	DiscountType      DiscountType `json:"discount_type"`
	DiscountValue     int64        `json:"discount_value"`
	MinOrderAmount    int64        `json:"min_order_amount,omitempty"`
	MaxDiscountAmount int64        `json:"max_discount_amount,omitempty"`
	ValidFrom         time.Time    `json:"valid_from"`
	ValidUntil        time.Time    `json:"valid_until"`
	IsUsed            bool         `json:"is_used"`
	UsedAt            *time.Time   `json:"used_at,omitempty"`
}

// ValidAt reports whether now falls inside [ValidFrom, ValidUntil].
func (c Coupon) ValidAt(now time.Time) bool {
	return !now.Before(c.ValidFrom) && !now.After(c.ValidUntil)
}

// StatusAt returns the lifecycle state for listing. Used and expired are both
// terminal; they are distinguished by IsUsed for reporting.
func (c Coupon) StatusAt(now time.Time) CouponStatus {
	if c.IsUsed {
		return CouponUsed
	}
	if now.After(c.ValidUntil) {
		return CouponExpired
	}
	return CouponAvailable
}
