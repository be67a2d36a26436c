// Package memory holds process-local stores for tests and single-instance runs.
package memory

import (
	"context"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
	"sort"
	"sync"
	"time"
)

type Ledger struct {
	mu    sync.RWMutex
	items map[string]inventory.Ingredient
}

func NewLedger(items ...inventory.Ingredient) *Ledger {
	l := &Ledger{items: make(map[string]inventory.Ingredient, len(items))}
	for _, it := range items {
		l.items[it.ID] = it
	}
	return l
}

func (l *Ledger) Decrement(_ context.Context, id string, qty int) (int, error) {
	if qty <= 0 {
		return 0, inventory.ErrInvalidQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	it, ok := l.items[id]
	if !ok {
		return 0, inventory.ErrIngredientNotFound
	}
	if it.Stock < qty {
		return 0, inventory.ErrInsufficientStock
	}
	it.Stock -= qty
	it.UpdatedAt = time.Now().UTC()
	l.items[id] = it
	return it.Stock, nil
}

func (l *Ledger) Increment(_ context.Context, id string, qty int) error {
	if qty <= 0 {
		return inventory.ErrInvalidQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	it, ok := l.items[id]
	if !ok {
		return inventory.ErrIngredientNotFound
	}
	it.Stock += qty
	it.UpdatedAt = time.Now().UTC()
	l.items[id] = it
	return nil
}

func (l *Ledger) GetMany(_ context.Context, ids []string) (map[string]inventory.Ingredient, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]inventory.Ingredient, len(ids))
	for _, id := range ids {
		if it, ok := l.items[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}

func (l *Ledger) ListBelow(_ context.Context, threshold int) ([]inventory.Ingredient, error) {
	l.mu.RLock()
	var out []inventory.Ingredient
	for _, it := range l.items {
		if it.Stock < threshold {
			out = append(out, it)
		}
	}
	l.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (l *Ledger) Put(_ context.Context, ing inventory.Ingredient) error {
	now := time.Now().UTC()
	l.mu.Lock()
	defer l.mu.Unlock()
	if prev, ok := l.items[ing.ID]; ok {
		ing.CreatedAt = prev.CreatedAt
	} else if ing.CreatedAt.IsZero() {
		ing.CreatedAt = now
	}
	ing.UpdatedAt = now
	l.items[ing.ID] = ing
	return nil
}

// Stock returns the current stock of id, or -1 when unknown.
func (l *Ledger) Stock(id string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	it, ok := l.items[id]
	if !ok {
		return -1
	}
	return it.Stock
}
