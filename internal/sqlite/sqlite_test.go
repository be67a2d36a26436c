package sqlite

import (
	"context"
	"errors"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
	"github.com/harishnarayan-coder/pizza-orders/internal/orders"
	"github.com/shopspring/decimal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func openTest(t *testing.T) (*Ledger, *OrderStore) {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "pizza.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &Ledger{DB: db}, &OrderStore{DB: db}
}

func TestLedger(t *testing.T) {
	l, _ := openTest(t)
	ctx := context.Background()
	if err := l.Put(ctx, inventory.Ingredient{ID: "a", Name: "Thin", Category: inventory.CategoryBase, Price: decimal.RequireFromString("99.50"), Stock: 2, Threshold: 20}); err != nil {
		t.Fatal(err)
	}

	if left, err := l.Decrement(ctx, "a", 1); err != nil || left != 1 {
		t.Fatalf("Decrement() = %d, %v", left, err)
	}
	if _, err := l.Decrement(ctx, "a", 2); !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Errorf("over-decrement err = %v", err)
	}
	if _, err := l.Decrement(ctx, "missing", 1); !errors.Is(err, inventory.ErrIngredientNotFound) {
		t.Errorf("missing decrement err = %v", err)
	}
	if err := l.Increment(ctx, "missing", 1); !errors.Is(err, inventory.ErrIngredientNotFound) {
		t.Errorf("missing increment err = %v", err)
	}
	if err := l.Increment(ctx, "a", 3); err != nil {
		t.Fatal(err)
	}

	got, err := l.GetMany(ctx, []string{"a", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["a"].Stock != 4 || !got["a"].Price.Equal(decimal.RequireFromString("99.5")) {
		t.Errorf("GetMany() = %+v", got)
	}

	// upsert keeps the id and replaces the rest
	if err := l.Put(ctx, inventory.Ingredient{ID: "a", Name: "Thin", Category: inventory.CategoryBase, Price: decimal.NewFromInt(100), Stock: 7}); err != nil {
		t.Fatal(err)
	}
	low, err := l.ListBelow(ctx, 8)
	if err != nil || len(low) != 1 || low[0].Stock != 7 {
		t.Errorf("ListBelow() = %+v, %v", low, err)
	}
}

func TestLedgerConcurrentDecrement(t *testing.T) {
	l, _ := openTest(t)
	ctx := context.Background()
	_ = l.Put(ctx, inventory.Ingredient{ID: "a", Name: "Thin", Category: inventory.CategoryBase, Stock: 5})

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Decrement(ctx, "a", 1); err == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()
	got, _ := l.GetMany(ctx, []string{"a"})
	if ok.Load() != 5 || got["a"].Stock != 0 {
		t.Errorf("successes = %d, stock = %d", ok.Load(), got["a"].Stock)
	}
}

func TestOrderStore(t *testing.T) {
	_, s := openTest(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	mk := func(id, user string, at time.Time) *orders.Order {
		return &orders.Order{
			ID:            id,
			UserID:        user,
			Items:         orders.Selection{Base: "b", Sauce: "s", Cheese: "c", Veggies: []string{"v", "v"}, Meat: []string{}},
			TotalPrice:    decimal.RequireFromString("230.00"),
			PaymentStatus: orders.PaymentPending,
			Status:        orders.StatusReceived,
			CreatedAt:     at,
			UpdatedAt:     at,
		}
	}
	for _, o := range []*orders.Order{mk("o1", "u1", base), mk("o2", "u2", base.Add(time.Second)), mk("o3", "u1", base.Add(2*time.Second))} {
		if err := s.Create(ctx, o); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Create(ctx, mk("o1", "u1", base)); !errors.Is(err, orders.ErrAlreadyExists) {
		t.Errorf("duplicate Create() = %v", err)
	}

	got, err := s.Get(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items.Veggies) != 2 || got.Items.Meat == nil || !got.TotalPrice.Equal(decimal.NewFromInt(230)) {
		t.Errorf("Get() = %+v", got)
	}
	if _, err := s.Get(ctx, "nope"); !errors.Is(err, orders.ErrNotFound) {
		t.Errorf("Get(missing) = %v", err)
	}

	mine, _ := s.ListByUser(ctx, "u1")
	if len(mine) != 2 || mine[0].ID != "o3" || mine[1].ID != "o1" {
		t.Errorf("ListByUser() order = %+v", mine)
	}
	all, _ := s.List(ctx)
	if len(all) != 3 {
		t.Errorf("List() len = %d", len(all))
	}

	upd, err := s.UpdateStatus(ctx, "o2", orders.StatusInKitchen)
	if err != nil || upd.Status != orders.StatusInKitchen {
		t.Errorf("UpdateStatus() = %+v, %v", upd, err)
	}
	if _, err := s.UpdateStatus(ctx, "nope", orders.StatusInKitchen); !errors.Is(err, orders.ErrNotFound) {
		t.Errorf("UpdateStatus(missing) = %v", err)
	}
}
