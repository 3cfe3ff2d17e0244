package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already archived")
)

// OrderRepository defines the archive operations the worker and the
// back-office listing need.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}
