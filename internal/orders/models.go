package orders

import (
	"github.com/shopspring/decimal"
	"time"
)

// Selection is one pizza: exactly one base, sauce and cheese plus any number
// of veggies and meats. The same id may appear more than once.
type Selection struct {
	Base    string   `json:"base"`
	Sauce   string   `json:"sauce"`
	Cheese  string   `json:"cheese"`
	Veggies []string `json:"veggies"`
	Meat    []string `json:"meat"`
}

// Flatten lists every ingredient occurrence in reservation order.
func (s Selection) Flatten() []string {
	out := make([]string, 0, 3+len(s.Veggies)+len(s.Meat))
	out = append(out, s.Base, s.Sauce, s.Cheese)
	out = append(out, s.Veggies...)
	out = append(out, s.Meat...)
	return out
}

func (s Selection) complete() bool {
	return s.Base != "" && s.Sauce != "" && s.Cheese != ""
}

func (s Selection) normalized() Selection {
	if s.Veggies == nil {
		s.Veggies = []string{}
	}
	if s.Meat == nil {
		s.Meat = []string{}
	}
	return s
}

type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user"`
	Items            Selection       `json:"items"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	Status           Status          `json:"status"`
	GatewayOrderID   string          `json:"razorpayOrderId,omitempty"`
	GatewayPaymentID string          `json:"razorpayPaymentId,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Clone returns a deep copy safe to hand to another goroutine.
func (o Order) Clone() Order {
	o.Items.Veggies = append([]string{}, o.Items.Veggies...)
	o.Items.Meat = append([]string{}, o.Items.Meat...)
	return o
}

type PlaceOrderInput struct {
	UserID           string
	Items            Selection
	TotalPrice       *decimal.Decimal // client value, advisory only
	PaymentStatus    string
	GatewayOrderID   string
	GatewayPaymentID string
}

// IngredientRef is an ingredient id with its display name.
type IngredientRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type SelectionView struct {
	Base    IngredientRef   `json:"base"`
	Sauce   IngredientRef   `json:"sauce"`
	Cheese  IngredientRef   `json:"cheese"`
	Veggies []IngredientRef `json:"veggies"`
	Meat    []IngredientRef `json:"meat"`
}

// OrderView is an order with ingredient names expanded.
type OrderView struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user"`
	Items            SelectionView   `json:"items"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	Status           Status          `json:"status"`
	GatewayOrderID   string          `json:"razorpayOrderId,omitempty"`
	GatewayPaymentID string          `json:"razorpayPaymentId,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
