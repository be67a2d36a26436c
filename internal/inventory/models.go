package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryBase   Category = "base"
	CategorySauce  Category = "sauce"
	CategoryCheese Category = "cheese"
	CategoryVeggie Category = "veggie"
	CategoryMeat   Category = "meat"
)

// DefaultThreshold is the stock level under which an ingredient is reported as low.
const DefaultThreshold = 20

// ParseCategory accepts the canonical names plus the legacy plural "veggies".
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryBase, CategorySauce, CategoryCheese, CategoryVeggie, CategoryMeat:
		return c, nil
	case "veggies":
		return CategoryVeggie, nil
	default:
		return "", fmt.Errorf("inventory: unknown category %q", s)
	}
}

type Ingredient struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  Category        `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Threshold int             `json:"threshold"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
