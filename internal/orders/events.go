package orders

import "github.com/shopspring/decimal"

const EventOrderPlaced = "OrderPlaced"

type OrderPlacedPayload struct {
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	Ingredients []string        `json:"ingredients"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}
