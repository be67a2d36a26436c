package inventory

import (
	"context"
	"errors"
	"fmt"
	"github.com/harishnarayan-coder/pizza-orders/internal/metrics"
	"go.uber.org/zap"
	"time"
)

const compensateTimeout = 5 * time.Second

// Reservation decrements one unit per listed ingredient occurrence. Each unit
// is taken with an atomic conditional decrement; when one is refused the units
// already taken by the same call are given back before the error is returned.
type Reservation struct {
	ledger Ledger
	log    *zap.Logger
}

func NewReservation(ledger Ledger, log *zap.Logger) *Reservation {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reservation{ledger: ledger, log: log}
}

// Reserve takes one unit for every element of ids. Duplicates count once per occurrence.
func (r *Reservation) Reserve(ctx context.Context, ids []string) error {
	taken := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := r.ledger.Decrement(ctx, id, 1); err != nil {
			if cerr := r.giveBack(ctx, taken); cerr != nil {
				r.log.Error("stock_rollback_incomplete",
					zap.Strings("ingredients", taken), zap.Error(cerr))
			}
			return r.classify(ctx, id, err)
		}
		taken = append(taken, id)
	}
	return nil
}

// Release returns one unit for every element of ids.
func (r *Reservation) Release(ctx context.Context, ids []string) error {
	return r.giveBack(ctx, ids)
}

// giveBack runs on a context detached from the caller's cancellation so a
// client disconnect cannot leave stock decremented.
func (r *Reservation) giveBack(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	var errs []error
	for _, id := range ids {
		if err := r.ledger.Increment(cctx, id, 1); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Reservation) classify(ctx context.Context, id string, err error) error {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		metrics.ReservationFailures.WithLabelValues("insufficient_stock").Inc()
		out := &InsufficientStockError{IngredientID: id}
		if found, gerr := r.ledger.GetMany(ctx, []string{id}); gerr == nil {
			out.Name = found[id].Name
		}
		return out
	case errors.Is(err, ErrIngredientNotFound):
		metrics.ReservationFailures.WithLabelValues("not_found").Inc()
		return fmt.Errorf("%w: %s", ErrIngredientNotFound, id)
	default:
		metrics.ReservationFailures.WithLabelValues("store").Inc()
		r.log.Error("stock_decrement_failed", zap.String("ingredient_id", id), zap.Error(err))
		return &ReservationError{IngredientID: id, Err: err}
	}
}
