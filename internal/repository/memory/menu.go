package memory

import (
	"context"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
)

type MenuStore struct {
	items map[string]domain.MenuItem
}

func NewMenuStore(items []domain.MenuItem) *MenuStore {
	m := &MenuStore{items: make(map[string]domain.MenuItem, len(items))}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

func (m *MenuStore) GetMenuItem(_ context.Context, id string) (*domain.MenuItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	return &item, nil
}
