package orders

import (
	"context"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
)

// Store persists orders. Create never overwrites; only status changes after creation.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, s Status) (*Order, error)
}

// Catalog resolves ingredient ids to their current records.
type Catalog interface {
	GetMany(ctx context.Context, ids []string) (map[string]inventory.Ingredient, error)
}

type Reserver interface {
	Reserve(ctx context.Context, ids []string) error
	Release(ctx context.Context, ids []string) error
}

// LowStockTrigger is notified after every placed order. Implementations must
// return immediately and keep their failures to themselves.
type LowStockTrigger interface {
	Trigger(ctx context.Context, o *Order)
}

// TriggerFunc adapts a function to LowStockTrigger.
type TriggerFunc func(ctx context.Context, o *Order)

func (f TriggerFunc) Trigger(ctx context.Context, o *Order) { f(ctx, o) }
