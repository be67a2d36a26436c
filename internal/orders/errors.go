package orders

import "errors"

var (
	ErrIncompleteOrder      = errors.New("incomplete pizza selection: base, sauce and cheese are required")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrNotFound             = errors.New("order not found")
	ErrAlreadyExists        = errors.New("order already exists")
	ErrUnauthenticated      = errors.New("missing user identity")
	ErrForbidden            = errors.New("order belongs to another user")
)
