package inventory

import "context"

// Ledger is the persistent record of ingredient stock.
//
// Decrement must be a single atomic conditional update: it lowers stock by qty
// only when the current stock is at least qty, and otherwise returns
// ErrInsufficientStock without touching the row. Unknown ids return
// ErrIngredientNotFound.
type Ledger interface {
	Decrement(ctx context.Context, id string, qty int) (remaining int, err error)
	Increment(ctx context.Context, id string, qty int) error
	GetMany(ctx context.Context, ids []string) (map[string]Ingredient, error)
	ListBelow(ctx context.Context, threshold int) ([]Ingredient, error)
	Put(ctx context.Context, ing Ingredient) error
}
