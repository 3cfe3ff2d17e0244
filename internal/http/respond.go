package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/catalog"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/checkout"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/coupon"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps domain sentinel errors to HTTP responses. The
// validation conditions are recoverable; anything unrecognized is a 500.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, coupon.ErrCouponNotFound):
		respondError(w, http.StatusNotFound, "coupon_not_found", "coupon not found")
	case errors.Is(err, coupon.ErrCouponAlreadyIssued):
		respondError(w, http.StatusConflict, "coupon_already_issued", "coupon already in wallet")
	case errors.Is(err, checkout.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "empty_order", "nothing staged to check out")
	case errors.Is(err, checkout.ErrAmountMismatch):
		respondError(w, http.StatusBadRequest, "amount_mismatch", "payment amount does not match order total")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
