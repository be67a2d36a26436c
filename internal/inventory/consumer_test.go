package inventory_test

import (
	"context"
	"errors"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
	kafkax "github.com/harishnarayan-coder/pizza-orders/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"testing"
)

type countingScanner struct{ n int }

func (c *countingScanner) ScanAndNotify(context.Context) { c.n++ }

type mapDedup struct {
	seen map[string]bool
	err  error
}

func (d *mapDedup) MarkSeen(_ context.Context, id string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen[id] {
		return false, nil
	}
	d.seen[id] = true
	return true, nil
}

func message(t *testing.T, eventType string) kafkago.Message {
	t.Helper()
	env := kafkax.NewEnvelope(eventType, "test", "", "order-1", map[string]string{"order_id": "order-1"})
	return kafkago.Message{Value: env.Bytes()}
}

func TestConsumerHandleOrderPlaced(t *testing.T) {
	s := &countingScanner{}
	c := &inventory.Consumer{Monitor: s, Dedup: &mapDedup{seen: map[string]bool{}}, EventType: "OrderPlaced"}

	m := message(t, "OrderPlaced")
	for i := 0; i < 2; i++ {
		if err := c.HandleOrderPlaced(context.Background(), m); err != nil {
			t.Fatal(err)
		}
	}
	if s.n != 1 {
		t.Errorf("scans = %d, want 1 (redelivery deduplicated)", s.n)
	}

	if err := c.HandleOrderPlaced(context.Background(), message(t, "SomethingElse")); err != nil || s.n != 1 {
		t.Errorf("foreign event: err %v scans %d", err, s.n)
	}
	if err := c.HandleOrderPlaced(context.Background(), kafkago.Message{Value: []byte("garbage")}); err != nil {
		t.Errorf("poison message should be skipped, got %v", err)
	}
}

func TestConsumerDedupOutage(t *testing.T) {
	s := &countingScanner{}
	c := &inventory.Consumer{Monitor: s, Dedup: &mapDedup{err: errors.New("redis down")}, EventType: "OrderPlaced"}
	if err := c.HandleOrderPlaced(context.Background(), message(t, "OrderPlaced")); err != nil {
		t.Fatal(err)
	}
	if s.n != 1 {
		t.Errorf("scans = %d, want 1", s.n)
	}
}
