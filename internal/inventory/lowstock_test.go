package inventory_test

import (
	"context"
	"errors"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
	"github.com/harishnarayan-coder/pizza-orders/internal/memory"
	"strings"
	"sync"
	"testing"
	"time"
)

type sent struct{ to, subject, body string }

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []sent
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, sent{to, subject, body})
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}

func named(id, name string, c inventory.Category, stock int) inventory.Ingredient {
	it := ing(id, stock)
	it.Name = name
	it.Category = c
	return it
}

func TestScanAndNotifySendsOneMessage(t *testing.T) {
	l := memory.NewLedger(
		named("a", "Mozzarella", inventory.CategoryCheese, 5),
		named("b", "Thin Crust", inventory.CategoryBase, 25),
		named("c", "Olives", inventory.CategoryVeggie, 15),
	)
	n := &recordingNotifier{}
	m := inventory.NewMonitor(l, n, inventory.MonitorConfig{Recipient: "ops@example.com", Threshold: 20}, nil)

	m.ScanAndNotify(context.Background())

	if n.count() != 1 {
		t.Fatalf("sent %d messages, want 1", n.count())
	}
	msg := n.msgs[0]
	if msg.to != "ops@example.com" || msg.subject != inventory.AlertSubject {
		t.Errorf("unexpected envelope %+v", msg)
	}
	for _, line := range []string{"Mozzarella (cheese): 5 left", "Olives (veggie): 15 left"} {
		if !strings.Contains(msg.body, line) {
			t.Errorf("body missing %q:\n%s", line, msg.body)
		}
	}
	if strings.Contains(msg.body, "Thin Crust") {
		t.Errorf("body lists an ingredient above threshold:\n%s", msg.body)
	}
}

func TestScanAndNotifyThresholdIsStrict(t *testing.T) {
	l := memory.NewLedger(ing("a", 20), ing("b", 100))
	n := &recordingNotifier{}
	inventory.NewMonitor(l, n, inventory.MonitorConfig{Recipient: "ops@example.com"}, nil).ScanAndNotify(context.Background())
	if n.count() != 0 {
		t.Fatalf("sent %d messages, want 0", n.count())
	}
}

func TestScanAndNotifySwallowsSendError(t *testing.T) {
	l := memory.NewLedger(ing("a", 1))
	n := &recordingNotifier{err: errors.New("smtp down")}
	m := inventory.NewMonitor(l, n, inventory.MonitorConfig{Recipient: "ops@example.com"}, nil)

	m.ScanAndNotify(context.Background())
	if n.count() != 1 {
		t.Fatalf("send attempts = %d, want 1", n.count())
	}
}

type panicLedger struct{ *memory.Ledger }

func (panicLedger) ListBelow(context.Context, int) ([]inventory.Ingredient, error) {
	panic("boom")
}

func TestScanAndNotifyRecoversPanic(t *testing.T) {
	m := inventory.NewMonitor(panicLedger{memory.NewLedger()}, &recordingNotifier{}, inventory.MonitorConfig{}, nil)
	m.ScanAndNotify(context.Background())
}

func TestFormatAlert(t *testing.T) {
	got := inventory.FormatAlert([]inventory.Ingredient{
		named("a", "Basil Pesto", inventory.CategorySauce, 3),
		named("b", "Salami", inventory.CategoryMeat, 0),
	})
	want := "Low Stock Alert!\n\nThe following items are running low:\n\nBasil Pesto (sauce): 3 left\nSalami (meat): 0 left"
	if got != want {
		t.Errorf("FormatAlert() =\n%q\nwant\n%q", got, want)
	}
}

type slowScanner struct {
	done chan struct{}
	err  error
}

func (s *slowScanner) ScanAndNotify(ctx context.Context) {
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		s.err = ctx.Err()
	}
	close(s.done)
}

func TestAsyncTriggerDoesNotBlock(t *testing.T) {
	s := &slowScanner{done: make(chan struct{})}
	tr := inventory.NewAsyncTrigger(s, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	tr.Trigger(ctx, "order-1")
	cancel() // request finished
	if time.Since(start) > 20*time.Millisecond {
		t.Fatal("Trigger blocked the caller")
	}

	tr.Wait()
	<-s.done
	if s.err != nil {
		t.Errorf("scan saw caller cancellation: %v", s.err)
	}
}

type panicScanner struct{}

func (panicScanner) ScanAndNotify(context.Context) { panic("scan exploded") }

func TestAsyncTriggerRecoversPanic(t *testing.T) {
	tr := inventory.NewAsyncTrigger(panicScanner{}, time.Second, nil)
	tr.Trigger(context.Background(), "order-1")
	tr.Wait()
}
