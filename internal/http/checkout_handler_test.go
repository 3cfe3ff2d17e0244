package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/checkout"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCheckoutService struct {
	completeErr  error
	lastRequest  checkout.ConfirmOrderRequest
	lastTier     domain.Tier
	cancelResult *checkout.CancelResult
}

func (m *mockCheckoutService) CompleteOrder(_ context.Context, userID string, tier domain.Tier, req checkout.ConfirmOrderRequest) (*domain.Order, error) {
	m.lastRequest = req
	m.lastTier = tier
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	return &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Source:      req.Source,
		TotalAmount: req.Amount,
		PaymentKey:  req.PaymentKey,
		Status:      domain.OrderStatusConfirmed,
		CreatedAt:   time.Now(),
	}, nil
}

func (m *mockCheckoutService) CancelPayment(_ context.Context, req checkout.CancelRequest) (*checkout.CancelResult, error) {
	if m.cancelResult != nil {
		return m.cancelResult, nil
	}
	return &checkout.CancelResult{PaymentKey: req.PaymentKey, Status: "CANCELED"}, nil
}

func TestConfirm_Success(t *testing.T) {
	service := &mockCheckoutService{}
	handler := NewCheckoutHandler(service, 5*time.Second)

	body, _ := json.Marshal(ConfirmRequestDTO{
		PaymentKey: "pay-key-1",
		OrderID:    "order-abc",
		Amount:     150000,
		Source:     "cart",
	})
	recorder := httptest.NewRecorder()
	handler.Confirm(recorder, memberRequest("POST", "/api/v1/checkout/confirm", body))

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, domain.TierMember, service.lastTier)
	assert.Equal(t, domain.OrderSourceCart, service.lastRequest.Source)

	var order domain.Order
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&order))
	assert.Equal(t, "123", order.UserID)
	assert.Equal(t, int64(150000), order.TotalAmount)
}

func TestConfirm_QuoteSource(t *testing.T) {
	service := &mockCheckoutService{}
	handler := NewCheckoutHandler(service, 5*time.Second)

	body, _ := json.Marshal(ConfirmRequestDTO{
		PaymentKey: "pay-key-2",
		OrderID:    "order-def",
		Amount:     80000,
		Source:     "quote",
	})
	recorder := httptest.NewRecorder()
	handler.Confirm(recorder, memberRequest("POST", "/api/v1/checkout/confirm", body))

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, domain.OrderSourceQuote, service.lastRequest.Source)
}

func TestConfirm_MissingPaymentKey(t *testing.T) {
	handler := NewCheckoutHandler(&mockCheckoutService{}, 5*time.Second)

	body, _ := json.Marshal(ConfirmRequestDTO{OrderID: "order-abc", Amount: 1000})
	recorder := httptest.NewRecorder()
	handler.Confirm(recorder, memberRequest("POST", "/api/v1/checkout/confirm", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestConfirm_AmountMismatch(t *testing.T) {
	service := &mockCheckoutService{completeErr: checkout.ErrAmountMismatch}
	handler := NewCheckoutHandler(service, 5*time.Second)

	body, _ := json.Marshal(ConfirmRequestDTO{
		PaymentKey: "pay-key-1",
		OrderID:    "order-abc",
		Amount:     999,
	})
	recorder := httptest.NewRecorder()
	handler.Confirm(recorder, memberRequest("POST", "/api/v1/checkout/confirm", body))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "amount_mismatch", response.Code)
}

func TestConfirm_EmptyOrder(t *testing.T) {
	service := &mockCheckoutService{completeErr: checkout.ErrEmptyOrder}
	handler := NewCheckoutHandler(service, 5*time.Second)

	body, _ := json.Marshal(ConfirmRequestDTO{
		PaymentKey: "pay-key-1",
		OrderID:    "order-abc",
		Amount:     0,
	})
	recorder := httptest.NewRecorder()
	handler.Confirm(recorder, memberRequest("POST", "/api/v1/checkout/confirm", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCancel_Success(t *testing.T) {
	handler := NewCheckoutHandler(&mockCheckoutService{}, 5*time.Second)

	body, _ := json.Marshal(CancelRequestDTO{PaymentKey: "pay-key-1", CancelReason: "customer request"})
	recorder := httptest.NewRecorder()
	handler.Cancel(recorder, memberRequest("POST", "/api/v1/checkout/cancel", body))

	require.Equal(t, http.StatusOK, recorder.Code)

	var result checkout.CancelResult
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
	assert.Equal(t, "CANCELED", result.Status)
}

func TestCancel_MissingReason(t *testing.T) {
	handler := NewCheckoutHandler(&mockCheckoutService{}, 5*time.Second)

	body, _ := json.Marshal(CancelRequestDTO{PaymentKey: "pay-key-1"})
	recorder := httptest.NewRecorder()
	handler.Cancel(recorder, memberRequest("POST", "/api/v1/checkout/cancel", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
