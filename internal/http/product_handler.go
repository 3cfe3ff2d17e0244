package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/pricing"
)

// CatalogSource is the catalog slice the listing handlers need.
type CatalogSource interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetAllCategories(ctx context.Context) ([]*domain.Category, error)
}

type ProductHandler struct {
	catalog CatalogSource
	timeout time.Duration
}

func NewProductHandler(catalog CatalogSource, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

// ProductDTO adds the unit price for the requesting member's tier so list
// screens do not need the whole price table.
type ProductDTO struct {
	*domain.Product
	UnitPrice int64 `json:"unit_price"`
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.GetAllProducts(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	tier := getTierFromContext(r.Context())
	result := make([]ProductDTO, len(products))
	for i, p := range products {
		result[i] = ProductDTO{Product: p, UnitPrice: pricing.PriceFor(*p, tier)}
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	tier := getTierFromContext(r.Context())
	respondJSON(w, http.StatusOK, ProductDTO{Product: product, UnitPrice: pricing.PriceFor(*product, tier)})
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.GetAllCategories(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, categories)
}
