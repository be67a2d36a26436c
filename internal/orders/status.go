package orders

import "strings"

// Status is the fulfillment state shown to customers.
type Status string

const (
	StatusReceived       Status = "Order Received"
	StatusInKitchen      Status = "In the kitchen"
	StatusOutForDelivery Status = "Sent to delivery"
)

var statusAliases = map[string]Status{
	"order received":   StatusReceived,
	"received":         StatusReceived,
	"in the kitchen":   StatusInKitchen,
	"in_kitchen":       StatusInKitchen,
	"sent to delivery": StatusOutForDelivery,
	"out_for_delivery": StatusOutForDelivery,
}

// ParseStatus accepts the display strings and their snake_case tokens.
// Any status may follow any other; there is no transition graph.
func ParseStatus(s string) (Status, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", ErrInvalidStatus
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// ParsePaymentStatus is case-insensitive; empty means pending.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PaymentPending, nil
	case PaymentPending, PaymentSuccess, PaymentFailed:
		return p, nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}
