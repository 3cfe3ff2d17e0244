package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderSource tells which staging area an order was placed from.
type OrderSource string

const (
	OrderSourceCart  OrderSource = "cart"
	OrderSourceQuote OrderSource = "quote"
)

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) String() string {
	return string(s)
}

type OrderItem struct {
	ProductID   string `json:"product_id" bson:"product_id"`
	ProductName string `json:"product_name" bson:"product_name"`
	Quantity    int    `json:"quantity" bson:"quantity"`
	UnitPrice   int64  `json:"unit_price" bson:"unit_price"`
	OptionKey   string `json:"option_key,omitempty" bson:"option_key,omitempty"`
}

// Order is the completed-order record produced at checkout and archived by
// the order worker.
type Order struct {
	ID             uuid.UUID   `json:"id" bson:"_id"`
	UserID         string      `json:"user_id" bson:"user_id"`
	Source         OrderSource `json:"source" bson:"source"`
	Items          []OrderItem `json:"items" bson:"items"`
	TotalAmount    int64       `json:"total_amount" bson:"total_amount"`
	DiscountAmount int64       `json:"discount_amount" bson:"discount_amount"`
	CouponID       string      `json:"coupon_id,omitempty" bson:"coupon_id,omitempty"`
	PaymentKey     string      `json:"payment_key" bson:"payment_key"`
	Status         OrderStatus `json:"status" bson:"status"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
}
