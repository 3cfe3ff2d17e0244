package catalog

import (
	"context"
	"errors"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Repository defines the catalog read operations the storefront needs.
// Consumers define this interface, not the Postgres implementation.
type Repository interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetAllCategories(ctx context.Context) ([]*domain.Category, error)
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Close() error
}
