package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/cart"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/pricing"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/quote"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/session"
)

var (
	ErrEmptyOrder     = errors.New("nothing staged to check out")
	ErrAmountMismatch = errors.New("payment amount does not match the staged order total")
)

// Sessions is the slice of the session service this package needs.
type Sessions interface {
	Get(ctx context.Context, userID string) (*session.State, error)
	FinalizeOrder(ctx context.Context, userID string, source domain.OrderSource) (string, error)
}

type Service struct {
	sessions  Sessions
	gateway   PaymentGateway
	publisher EventPublisher
}

func NewService(sessions Sessions, gateway PaymentGateway, publisher EventPublisher) *Service {
	return &Service{
		sessions:  sessions,
		gateway:   gateway,
		publisher: publisher,
	}
}

// ConfirmOrderRequest carries the gateway callback parameters plus which
// staging area the order was placed from.
type ConfirmOrderRequest struct {
	PaymentKey string
	OrderID    string
	Amount     int64
	Source     domain.OrderSource
}

// CompleteOrder settles the staged order. The amount the member was charged
// must equal the staged total minus the applied coupon discount (clamped at
// zero; a fixed coupon can exceed the order total). On gateway approval the
// applied coupon is consumed exactly once, the staging area is cleared, and
// an order-completed event goes out to the archive pipeline.
func (s *Service) CompleteOrder(ctx context.Context, userID string, tier domain.Tier, req ConfirmOrderRequest) (*domain.Order, error) {
	state, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var total int64
	var items []domain.OrderItem
	switch req.Source {
	case domain.OrderSourceQuote:
		total = state.Quote.Total()
		items = quoteItems(state.Quote.Lines)
	default:
		total = state.Cart.Total(tier)
		items = cartItems(state.Cart.Lines, tier)
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	discount := state.Wallet.Discount(total)
	payable := total - discount
	if payable < 0 {
		payable = 0
	}
	if req.Amount != payable {
		return nil, ErrAmountMismatch
	}

	if _, err := s.gateway.Confirm(ctx, ConfirmRequest{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     req.Amount,
	}); err != nil {
		return nil, fmt.Errorf("payment confirmation failed: %w", err)
	}

	usedCouponID, err := s.sessions.FinalizeOrder(ctx, userID, req.Source)
	if err != nil {
		// Payment went through; the session cleanup failing must not lose
		// the order. Surface it loudly and keep going.
		log.Printf("failed to finalize session for user %s: %v", userID, err)
	}

	order := &domain.Order{
		ID:             uuid.New(),
		UserID:         userID,
		Source:         req.Source,
		Items:          items,
		TotalAmount:    total,
		DiscountAmount: discount,
		CouponID:       usedCouponID,
		PaymentKey:     req.PaymentKey,
		Status:         domain.OrderStatusConfirmed,
		CreatedAt:      time.Now(),
	}

	if err := s.publisher.PublishOrderCompleted(ctx, order); err != nil {
		log.Printf("failed to publish order %s: %v", order.ID, err)
	}

	return order, nil
}

// CancelPayment passes a cancellation through to the gateway.
func (s *Service) CancelPayment(ctx context.Context, req CancelRequest) (*CancelResult, error) {
	result, err := s.gateway.Cancel(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("payment cancellation failed: %w", err)
	}
	return result, nil
}

func cartItems(lines []cart.Line, tier domain.Tier) []domain.OrderItem {
	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   pricing.PriceFor(line.Product, tier),
			OptionKey:   cart.OptionKey(line.SelectedOptions),
		}
	}
	return items
}

func quoteItems(lines []quote.Line) []domain.OrderItem {
	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}
	return items
}
