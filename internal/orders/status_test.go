package orders

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		err  error
	}{
		{"Order Received", StatusReceived, nil},
		{"in the kitchen", StatusInKitchen, nil},
		{"Sent to delivery", StatusOutForDelivery, nil},
		{"out_for_delivery", StatusOutForDelivery, nil},
		{" received ", StatusReceived, nil},
		{"Delivered", "", ErrInvalidStatus},
		{"", "", ErrInvalidStatus},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if got != tt.want || !errors.Is(err, tt.err) {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q, %v", tt.in, got, err, tt.want, tt.err)
		}
	}
}

func TestParsePaymentStatus(t *testing.T) {
	tests := []struct {
		in   string
		want PaymentStatus
		err  error
	}{
		{"", PaymentPending, nil},
		{"Pending", PaymentPending, nil},
		{"success", PaymentSuccess, nil},
		{"FAILED", PaymentFailed, nil},
		{"refunded", "", ErrInvalidPaymentStatus},
	}
	for _, tt := range tests {
		got, err := ParsePaymentStatus(tt.in)
		if got != tt.want || !errors.Is(err, tt.err) {
			t.Errorf("ParsePaymentStatus(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSelectionFlatten(t *testing.T) {
	s := Selection{Base: "b", Sauce: "s", Cheese: "c", Veggies: []string{"v1", "v1"}, Meat: []string{"m"}}
	want := []string{"b", "s", "c", "v1", "v1", "m"}
	if got := s.Flatten(); !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}
