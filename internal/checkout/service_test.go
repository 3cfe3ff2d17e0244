package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSessions struct {
	state        *session.State
	getErr       error
	finalized    bool
	finalizedSrc domain.OrderSource
	usedCouponID string
}

func (m *mockSessions) Get(context.Context, string) (*session.State, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.state, nil
}

func (m *mockSessions) FinalizeOrder(_ context.Context, _ string, source domain.OrderSource) (string, error) {
	m.finalized = true
	m.finalizedSrc = source
	return m.usedCouponID, nil
}

type mockGateway struct {
	confirmErr error
	confirmed  []ConfirmRequest
	cancelled  []CancelRequest
}

func (m *mockGateway) Confirm(_ context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	if m.confirmErr != nil {
		return nil, m.confirmErr
	}
	m.confirmed = append(m.confirmed, req)
	return &ConfirmResult{PaymentKey: req.PaymentKey, OrderID: req.OrderID, Amount: req.Amount, Status: "DONE"}, nil
}

func (m *mockGateway) Cancel(_ context.Context, req CancelRequest) (*CancelResult, error) {
	m.cancelled = append(m.cancelled, req)
	return &CancelResult{PaymentKey: req.PaymentKey, Status: "CANCELED"}, nil
}

type mockPublisher struct {
	published []*domain.Order
	err       error
}

func (m *mockPublisher) PublishOrderCompleted(_ context.Context, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, order)
	return nil
}

func testProduct(id string) domain.Product {
	return domain.Product{
		ID:   id,
		Name: "Office Chair",
		Prices: map[domain.Tier]int64{
			domain.TierRetail: 89000,
			domain.TierMember: 80000,
			domain.TierVIP:    69000,
		},
		MinQuantity: 1,
		Stock:       500,
	}
}

func stagedState(t *testing.T) *session.State {
	t.Helper()
	state := &session.State{}
	state.Cart.Add(testProduct("P-1"), 2, nil)
	c := domain.Coupon{
		ID:                "c-welcome",
		Code:              "WELCOME10",
		DiscountType:      domain.DiscountPercent,
		DiscountValue:     10,
		MinOrderAmount:    30000,
		MaxDiscountAmount: 10000,
		ValidFrom:         time.Now().Add(-time.Hour),
		ValidUntil:        time.Now().Add(time.Hour),
	}
	state.Wallet.Add(c)
	state.Wallet.Apply(&c)
	return state
}

func TestCompleteOrder_CartWithCoupon(t *testing.T) {
	sessions := &mockSessions{state: stagedState(t), usedCouponID: "c-welcome"}
	gateway := &mockGateway{}
	publisher := &mockPublisher{}
	sut := NewService(sessions, gateway, publisher)

	// 2 x 80000 member price, 10% capped at 10000 -> payable 150000.
	order, err := sut.CompleteOrder(context.Background(), "123", domain.TierMember, ConfirmOrderRequest{
		PaymentKey: "pay-key-1",
		OrderID:    "ord-1",
		Amount:     150000,
		Source:     domain.OrderSourceCart,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(160000), order.TotalAmount)
	assert.Equal(t, int64(10000), order.DiscountAmount)
	assert.Equal(t, "c-welcome", order.CouponID)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "P-1", order.Items[0].ProductID)
	assert.Equal(t, int64(80000), order.Items[0].UnitPrice)

	require.Len(t, gateway.confirmed, 1)
	assert.Equal(t, int64(150000), gateway.confirmed[0].Amount)
	assert.True(t, sessions.finalized)
	assert.Equal(t, domain.OrderSourceCart, sessions.finalizedSrc)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, order.ID, publisher.published[0].ID)
}

func TestCompleteOrder_AmountMismatchRejectedBeforeGateway(t *testing.T) {
	sessions := &mockSessions{state: stagedState(t)}
	gateway := &mockGateway{}
	sut := NewService(sessions, gateway, &mockPublisher{})

	_, err := sut.CompleteOrder(context.Background(), "123", domain.TierMember, ConfirmOrderRequest{
		PaymentKey: "pay-key-1",
		OrderID:    "ord-1",
		Amount:     160000, // forgot the discount
		Source:     domain.OrderSourceCart,
	})
	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.Empty(t, gateway.confirmed)
	assert.False(t, sessions.finalized)
}

func TestCompleteOrder_EmptyStaging(t *testing.T) {
	sessions := &mockSessions{state: &session.State{}}
	sut := NewService(sessions, &mockGateway{}, &mockPublisher{})

	_, err := sut.CompleteOrder(context.Background(), "123", domain.TierMember, ConfirmOrderRequest{
		Amount: 0,
		Source: domain.OrderSourceCart,
	})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCompleteOrder_GatewayRejection(t *testing.T) {
	sessions := &mockSessions{state: stagedState(t)}
	gateway := &mockGateway{confirmErr: fmt.Errorf("card declined")}
	sut := NewService(sessions, gateway, &mockPublisher{})

	_, err := sut.CompleteOrder(context.Background(), "123", domain.TierMember, ConfirmOrderRequest{
		PaymentKey: "pay-key-1",
		OrderID:    "ord-1",
		Amount:     150000,
		Source:     domain.OrderSourceCart,
	})
	require.ErrorContains(t, err, "card declined")
	// Rejected payments must not consume the coupon or clear the cart.
	assert.False(t, sessions.finalized)
}

func TestCompleteOrder_FixedCouponBeyondTotalClampsPayableToZero(t *testing.T) {
	state := &session.State{}
	p := testProduct("P-1")
	p.Prices = map[domain.Tier]int64{domain.TierRetail: 1000}
	state.Cart.Add(p, 1, nil)
	c := domain.Coupon{
		ID:            "c-big",
		Code:          "BIG5000",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 5000,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(time.Hour),
	}
	state.Wallet.Add(c)
	state.Wallet.Apply(&c)

	sessions := &mockSessions{state: state, usedCouponID: "c-big"}
	sut := NewService(sessions, &mockGateway{}, &mockPublisher{})

	order, err := sut.CompleteOrder(context.Background(), "123", domain.TierGuest, ConfirmOrderRequest{
		PaymentKey: "pay-key-1",
		OrderID:    "ord-1",
		Amount:     0, // engine discount exceeds the total; payable clamps to 0
		Source:     domain.OrderSourceCart,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), order.TotalAmount)
	assert.Equal(t, int64(5000), order.DiscountAmount)
}

func TestCompleteOrder_QuoteUsesFrozenPrices(t *testing.T) {
	state := &session.State{}
	state.Quote.Add(testProduct("P-1"), 2, domain.TierMember)

	sessions := &mockSessions{state: state}
	sut := NewService(sessions, &mockGateway{}, &mockPublisher{})

	// Member has since become vip; the quote still settles at 160000.
	order, err := sut.CompleteOrder(context.Background(), "123", domain.TierVIP, ConfirmOrderRequest{
		PaymentKey: "pay-key-1",
		OrderID:    "ord-1",
		Amount:     160000,
		Source:     domain.OrderSourceQuote,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(160000), order.TotalAmount)
	assert.Equal(t, domain.OrderSourceQuote, sessions.finalizedSrc)
	assert.Equal(t, int64(80000), order.Items[0].UnitPrice)
}

func TestCompleteOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	sessions := &mockSessions{state: stagedState(t), usedCouponID: "c-welcome"}
	publisher := &mockPublisher{err: fmt.Errorf("broker unavailable")}
	sut := NewService(sessions, &mockGateway{}, publisher)

	order, err := sut.CompleteOrder(context.Background(), "123", domain.TierMember, ConfirmOrderRequest{
		PaymentKey: "pay-key-1",
		OrderID:    "ord-1",
		Amount:     150000,
		Source:     domain.OrderSourceCart,
	})
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestCancelPayment_PassesThrough(t *testing.T) {
	gateway := &mockGateway{}
	sut := NewService(&mockSessions{state: &session.State{}}, gateway, &mockPublisher{})

	result, err := sut.CancelPayment(context.Background(), CancelRequest{
		PaymentKey:   "pay-key-1",
		CancelReason: "customer request",
	})
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", result.Status)
	require.Len(t, gateway.cancelled, 1)
	assert.Equal(t, "customer request", gateway.cancelled[0].CancelReason)
}
