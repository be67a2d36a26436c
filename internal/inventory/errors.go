package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrIngredientNotFound = errors.New("inventory: ingredient not found")
	ErrInsufficientStock  = errors.New("inventory: insufficient stock")
	ErrInvalidQuantity    = errors.New("inventory: quantity must be greater than zero")
	ErrReservation        = errors.New("inventory: reservation failed")
)

// InsufficientStockError names the ingredient whose decrement was refused.
// It matches ErrInsufficientStock with errors.Is.
type InsufficientStockError struct {
	IngredientID string
	Name         string
}

func (e *InsufficientStockError) Error() string {
	name := e.Name
	if name == "" {
		name = e.IngredientID
	}
	return "insufficient stock for " + name
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ReservationError wraps a ledger failure (store unreachable, timeout, ...).
// It matches ErrReservation with errors.Is and unwraps to the cause.
type ReservationError struct {
	IngredientID string
	Err          error
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("reservation failed at ingredient %s: %v", e.IngredientID, e.Err)
}

func (e *ReservationError) Is(target error) bool { return target == ErrReservation }

func (e *ReservationError) Unwrap() error { return e.Err }
