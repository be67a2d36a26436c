package memory

import (
	"context"
	"errors"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
	"github.com/harishnarayan-coder/pizza-orders/internal/orders"
	"testing"
	"time"
)

func TestLedgerDecrement(t *testing.T) {
	l := NewLedger(inventory.Ingredient{ID: "a", Stock: 2})
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		qty     int
		want    int
		wantErr error
	}{
		{"take one", "a", 1, 1, nil},
		{"too many", "a", 2, 0, inventory.ErrInsufficientStock},
		{"last one", "a", 1, 0, nil},
		{"empty", "a", 1, 0, inventory.ErrInsufficientStock},
		{"unknown", "zz", 1, 0, inventory.ErrIngredientNotFound},
		{"zero qty", "a", 0, 0, inventory.ErrInvalidQuantity},
	}
	for _, tt := range tests {
		got, err := l.Decrement(ctx, tt.id, tt.qty)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("%s: Decrement() = %d, %v; want %d, %v", tt.name, got, err, tt.want, tt.wantErr)
		}
	}
	if l.Stock("a") != 0 {
		t.Errorf("stock = %d", l.Stock("a"))
	}
	if l.Stock("zz") != -1 {
		t.Error("unknown id should report -1")
	}
}

func TestLedgerListBelowSorted(t *testing.T) {
	l := NewLedger(
		inventory.Ingredient{ID: "1", Name: "Tomato", Category: inventory.CategoryVeggie, Stock: 3},
		inventory.Ingredient{ID: "2", Name: "Onion", Category: inventory.CategoryVeggie, Stock: 3},
		inventory.Ingredient{ID: "3", Name: "Thin", Category: inventory.CategoryBase, Stock: 50},
		inventory.Ingredient{ID: "4", Name: "Pesto", Category: inventory.CategorySauce, Stock: 19},
	)
	got, _ := l.ListBelow(context.Background(), 20)
	var ids []string
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	want := []string{"4", "2", "1"}
	if len(ids) != len(want) {
		t.Fatalf("ListBelow() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ListBelow() = %v, want %v", ids, want)
		}
	}
}

func TestOrderStoreIsolation(t *testing.T) {
	s := NewOrderStore()
	ctx := context.Background()
	o := &orders.Order{ID: "o1", UserID: "u", Items: orders.Selection{Veggies: []string{"v"}}, CreatedAt: time.Now()}
	if err := s.Create(ctx, o); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, o); !errors.Is(err, orders.ErrAlreadyExists) {
		t.Errorf("duplicate Create() = %v", err)
	}
	o.Items.Veggies[0] = "changed"

	got, _ := s.Get(ctx, "o1")
	if got.Items.Veggies[0] != "v" {
		t.Errorf("store shares caller slice: %v", got.Items.Veggies)
	}
	if _, err := s.Get(ctx, "nope"); !errors.Is(err, orders.ErrNotFound) {
		t.Errorf("Get(missing) = %v", err)
	}
	if list, _ := s.ListByUser(ctx, "other"); list == nil || len(list) != 0 {
		t.Errorf("ListByUser(other) = %#v, want empty non-nil", list)
	}
}
