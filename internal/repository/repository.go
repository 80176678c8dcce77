package repository

import (
	"context"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
)

// OrderRepository is implemented by every order store. Connectivity failures
// are reported wrapped in domain.ErrUnavailable.
type OrderRepository interface {
	// NextSequence atomically reserves the next order number.
	NextSequence(ctx context.Context) (int64, error)
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	// List returns one page of matching orders and the total match count.
	List(ctx context.Context, q domain.OrderQuery) ([]domain.Order, int, error)
	// Update replaces the whole stored document.
	Update(ctx context.Context, order *domain.Order) error
}

type MenuRepository interface {
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
}
