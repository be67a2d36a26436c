package memory

import (
	"context"
	"github.com/harishnarayan-coder/pizza-orders/internal/orders"
	"sort"
	"sync"
	"time"
)

type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]orders.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]orders.Order)}
}

func (s *OrderStore) Create(_ context.Context, o *orders.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; ok {
		return orders.ErrAlreadyExists
	}
	s.orders[o.ID] = o.Clone()
	return nil
}

func (s *OrderStore) Get(_ context.Context, id string) (*orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	c := o.Clone()
	return &c, nil
}

func (s *OrderStore) ListByUser(_ context.Context, userID string) ([]orders.Order, error) {
	return s.filter(func(o orders.Order) bool { return o.UserID == userID }), nil
}

func (s *OrderStore) List(_ context.Context) ([]orders.Order, error) {
	return s.filter(func(orders.Order) bool { return true }), nil
}

func (s *OrderStore) UpdateStatus(_ context.Context, id string, st orders.Status) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	o.Status = st
	o.UpdatedAt = time.Now().UTC()
	s.orders[id] = o
	c := o.Clone()
	return &c, nil
}

// filter returns matches newest first.
func (s *OrderStore) filter(keep func(orders.Order) bool) []orders.Order {
	s.mu.RLock()
	out := []orders.Order{}
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
