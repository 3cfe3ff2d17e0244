package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/checkout"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
)

// CheckoutService is the order-completion slice the handler calls into.
type CheckoutService interface {
	CompleteOrder(ctx context.Context, userID string, tier domain.Tier, req checkout.ConfirmOrderRequest) (*domain.Order, error)
	CancelPayment(ctx context.Context, req checkout.CancelRequest) (*checkout.CancelResult, error)
}

type CheckoutHandler struct {
	service CheckoutService
	timeout time.Duration
}

func NewCheckoutHandler(service CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		timeout: timeout,
	}
}

type ConfirmRequestDTO struct {
	PaymentKey string `json:"payment_key"`
	OrderID    string `json:"order_id"`
	Amount     int64  `json:"amount"`
	Source     string `json:"source"` // "cart" (default) or "quote"
}

type CancelRequestDTO struct {
	PaymentKey   string `json:"payment_key"`
	CancelReason string `json:"cancel_reason"`
	CancelAmount int64  `json:"cancel_amount,omitempty"`
}

// Confirm is the payment-gateway success callback: the member returned from
// the hosted payment page and the charge must now be captured and the order
// finalized.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req ConfirmRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentKey == "" || req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "payment_key and order_id are required")
		return
	}

	source := domain.OrderSourceCart
	if req.Source == string(domain.OrderSourceQuote) {
		source = domain.OrderSourceQuote
	}

	order, err := h.service.CompleteOrder(ctx, userID, getTierFromContext(r.Context()), checkout.ConfirmOrderRequest{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     req.Amount,
		Source:     source,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CancelRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentKey == "" || req.CancelReason == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "payment_key and cancel_reason are required")
		return
	}

	result, err := h.service.CancelPayment(ctx, checkout.CancelRequest{
		PaymentKey:   req.PaymentKey,
		CancelReason: req.CancelReason,
		CancelAmount: req.CancelAmount,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
