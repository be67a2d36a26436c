package inventory

import (
	"context"
	"fmt"
	"github.com/shopspring/decimal"
	"regexp"
	"strings"
)

type seedItem struct {
	name      string
	category  Category
	price     int64
	stock     int
	threshold int
}

var defaultSeed = []seedItem{
	{"Classic Hand-Tossed", CategoryBase, 100, 100, 20},
	{"100% Whole Wheat", CategoryBase, 120, 80, 20},
	{"Cheese Burst Crust", CategoryBase, 180, 50, 10},
	{"Thin & Crispy", CategoryBase, 110, 90, 20},
	{"Gluten-Free Base", CategoryBase, 150, 40, 10},

	{"Classic Tomato Basil", CategorySauce, 30, 200, 50},
	{"Spicy Marinara", CategorySauce, 40, 150, 30},
	{"Creamy Garlic Alfredo", CategorySauce, 50, 100, 30},
	{"Smoky BBQ Sauce", CategorySauce, 45, 120, 30},
	{"Fresh Basil Pesto", CategorySauce, 60, 80, 20},

	{"100% Mozzarella", CategoryCheese, 60, 300, 50},
	{"Cheddar Blend", CategoryCheese, 70, 200, 40},
	{"Smoked Gouda", CategoryCheese, 90, 100, 20},
	{"Feta Crumbles", CategoryCheese, 85, 80, 20},
	{"Vegan Cheese Alternative", CategoryCheese, 100, 50, 10},

	{"Fresh Mushrooms", CategoryVeggie, 40, 150, 30},
	{"Crunchy Bell Peppers", CategoryVeggie, 30, 200, 40},
	{"Black Olives", CategoryVeggie, 45, 100, 20},
	{"Red Onions", CategoryVeggie, 20, 250, 50},
	{"Spicy Jalapeños", CategoryVeggie, 35, 120, 30},

	{"Classic Pepperoni", CategoryMeat, 70, 150, 40},
	{"Grilled Chicken Tikka", CategoryMeat, 80, 120, 30},
	{"Spicy Italian Sausage", CategoryMeat, 85, 100, 20},
	{"Smoked Bacon Strips", CategoryMeat, 90, 80, 20},
	{"Salami Slices", CategoryMeat, 75, 110, 30},
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a stable ingredient id from its category and display name.
func Slug(c Category, name string) string {
	s := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(name), "-"), "-")
	return string(c) + "-" + s
}

// DefaultCatalog returns the stock catalog a fresh store is seeded with.
func DefaultCatalog() []Ingredient {
	out := make([]Ingredient, 0, len(defaultSeed))
	for _, s := range defaultSeed {
		out = append(out, Ingredient{
			ID:        Slug(s.category, s.name),
			Name:      s.name,
			Category:  s.category,
			Price:     decimal.NewFromInt(s.price),
			Stock:     s.stock,
			Threshold: s.threshold,
		})
	}
	return out
}

// Seed upserts every item into the ledger.
func Seed(ctx context.Context, l Ledger, items []Ingredient) error {
	for _, it := range items {
		if err := l.Put(ctx, it); err != nil {
			return fmt.Errorf("seed %s: %w", it.ID, err)
		}
	}
	return nil
}
