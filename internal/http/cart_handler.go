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

// SessionService is the slice of the session layer the handlers call into.
type SessionService interface {
	Get(ctx context.Context, userID string) (*session.State, error)
	AddToCart(ctx context.Context, userID string, p domain.Product, quantity int, opts map[string]string) (*session.State, error)
	UpdateCartQuantity(ctx context.Context, userID, productID string, quantity int, opts map[string]string) (*session.State, error)
	RemoveFromCart(ctx context.Context, userID, productID string, opts map[string]string) (*session.State, error)
	ClearCart(ctx context.Context, userID string) (*session.State, error)
	AddToQuote(ctx context.Context, userID string, p domain.Product, quantity int, tier domain.Tier) (*session.State, error)
	UpdateQuoteQuantity(ctx context.Context, userID, productID string, quantity int) (*session.State, error)
	RemoveFromQuote(ctx context.Context, userID, productID string) (*session.State, error)
	ClearQuote(ctx context.Context, userID string) (*session.State, error)
	RedeemCoupon(ctx context.Context, userID, code string) (*session.State, error)
	ApplyCoupon(ctx context.Context, userID, couponID string) (*session.State, error)
	RemoveCoupon(ctx context.Context, userID, couponID string) (*session.State, error)
}

// ProductSource is the catalog slice the cart/quote handlers need.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type CartHandler struct {
	sessions SessionService
	catalog  ProductSource
	timeout  time.Duration
}

func NewCartHandler(sessions SessionService, catalog ProductSource, timeout time.Duration) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  catalog,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID       string            `json:"product_id"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

// CartResponseDTO carries the staged lines plus the totals for the tier the
// request was made under.
type CartResponseDTO struct {
	Lines    interface{} `json:"lines"`
	Total    int64       `json:"total"`
	Discount int64       `json:"discount"`
	Payable  int64       `json:"payable"`
}

func cartResponse(state *session.State, tier domain.Tier) CartResponseDTO {
	total := state.Cart.Total(tier)
	discount := state.Wallet.Discount(total)
	payable := total - discount
	if payable < 0 {
		payable = 0
	}
	return CartResponseDTO{
		Lines:    state.Cart.Lines,
		Total:    total,
		Discount: discount,
		Payable:  payable,
	}
}

// clampQuantity bounds q to [minQuantity, min(stock, maxQuantity)]. The
// aggregator trusts its caller; the clamping lives here at the edge.
func clampQuantity(p *domain.Product, q int) int {
	if q < p.MinQuantity {
		q = p.MinQuantity
	}
	if maxQ := p.EffectiveMax(); q > maxQ {
		q = maxQ
	}
	return q
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
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

	respondJSON(w, http.StatusOK, cartResponse(state, getTierFromContext(r.Context())))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	quantity := clampQuantity(product, req.Quantity)
	state, err := h.sessions.AddToCart(ctx, userID, *product, quantity, req.SelectedOptions)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(state, getTierFromContext(r.Context())))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	quantity := clampQuantity(product, req.Quantity)
	state, err := h.sessions.UpdateCartQuantity(ctx, userID, productID, quantity, req.SelectedOptions)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(state, getTierFromContext(r.Context())))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	// Option identity travels in the body so distinct option lines of the
	// same product can be removed individually.
	var req UpdateQuantityRequestDTO
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	state, err := h.sessions.RemoveFromCart(ctx, userID, productID, req.SelectedOptions)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(state, getTierFromContext(r.Context())))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	state, err := h.sessions.ClearCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(state, getTierFromContext(r.Context())))
}
