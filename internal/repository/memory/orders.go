// Package memory holds the in-process order and menu stores used in
// degraded mode. Writes live only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
)

type OrderStore struct {
	mu     sync.RWMutex
	orders []*domain.Order // newest first
	seq    int64
}

func NewOrderStore(seed []domain.Order) *OrderStore {
	s := &OrderStore{orders: make([]*domain.Order, 0, len(seed))}
	for i := range seed {
		s.orders = append(s.orders, seed[i].Clone())
	}
	s.seq = int64(len(seed))
	return s
}

// NextSequence continues numbering after the seeded orders.
func (s *OrderStore) NextSequence(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

// Create prepends the order.
func (s *OrderStore) Create(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == order.ID {
			return fmt.Errorf("order %s already exists", order.ID)
		}
	}
	s.orders = append([]*domain.Order{order.Clone()}, s.orders...)
	return nil
}

func (s *OrderStore) Get(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (s *OrderStore) List(_ context.Context, q domain.OrderQuery) ([]domain.Order, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, total := domain.ApplyQuery(s.orders, q)
	return page, total, nil
}

// Update replaces the stored order wholesale.
func (s *OrderStore) Update(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID == order.ID {
			s.orders[i] = order.Clone()
			return nil
		}
	}
	return domain.ErrOrderNotFound
}

func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
