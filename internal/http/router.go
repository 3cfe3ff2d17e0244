package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the storefront API with the gateway middleware chain.
func NewRouter(
	cartHandler *CartHandler,
	quoteHandler *QuoteHandler,
	couponHandler *CouponHandler,
	checkoutHandler *CheckoutHandler,
	productHandler *ProductHandler,
	requestTimeout time.Duration,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MockAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{product_id}", productHandler.GetProduct)
		r.Get("/categories", productHandler.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
		})

		r.Route("/quote", func(r chi.Router) {
			r.Get("/", quoteHandler.GetQuote)
			r.Post("/items", quoteHandler.AddItem)
			r.Put("/items/{product_id}", quoteHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", quoteHandler.RemoveItem)
			r.Delete("/", quoteHandler.ClearQuote)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", couponHandler.ListCoupons)
			r.Post("/redeem", couponHandler.Redeem)
			r.Post("/apply", couponHandler.Apply)
			r.Delete("/{coupon_id}", couponHandler.Remove)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/confirm", checkoutHandler.Confirm)
			r.Post("/cancel", checkoutHandler.Cancel)
		})
	})

	return r
}
