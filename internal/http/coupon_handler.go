package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/session"
)

type CouponHandler struct {
	sessions SessionService
	timeout  time.Duration
}

func NewCouponHandler(sessions SessionService, timeout time.Duration) *CouponHandler {
	return &CouponHandler{
		sessions: sessions,
		timeout:  timeout,
	}
}

type RedeemCouponRequestDTO struct {
	Code string `json:"code"`
}

type ApplyCouponRequestDTO struct {
	CouponID string `json:"coupon_id"`
}

type CouponDTO struct {
	domain.Coupon
	Status domain.CouponStatus `json:"status"`
}

type WalletResponseDTO struct {
	Coupons   []CouponDTO `json:"coupons"`
	AppliedID string      `json:"applied_id,omitempty"`
}

func walletResponse(state *session.State) WalletResponseDTO {
	now := time.Now()
	coupons := make([]CouponDTO, len(state.Wallet.Coupons))
	for i, c := range state.Wallet.Coupons {
		coupons[i] = CouponDTO{Coupon: c, Status: c.StatusAt(now)}
	}
	return WalletResponseDTO{
		Coupons:   coupons,
		AppliedID: state.Wallet.AppliedID,
	}
}

func (h *CouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	state, err := h.sessions.Get(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, walletResponse(state))
}

func (h *CouponHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req RedeemCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "invalid_code", "code is required")
		return
	}

	state, err := h.sessions.RedeemCoupon(ctx, userID, req.Code)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, walletResponse(state))
}

// Apply selects a wallet coupon for the order in progress. An empty
// coupon_id clears the applied slot. No validity check happens here: an
// out-of-window coupon simply contributes a zero discount.
func (h *CouponHandler) Apply(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req ApplyCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	state, err := h.sessions.ApplyCoupon(ctx, userID, req.CouponID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, walletResponse(state))
}

func (h *CouponHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	couponID := chi.URLParam(r, "coupon_id")
	if couponID == "" {
		respondError(w, http.StatusBadRequest, "invalid_coupon_id", "coupon_id is required")
		return
	}

	state, err := h.sessions.RemoveCoupon(ctx, userID, couponID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, walletResponse(state))
}
