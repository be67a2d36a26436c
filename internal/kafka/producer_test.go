package kafka

import (
	"context"
	"errors"
	"github.com/segmentio/kafka-go"
	"sync"
	"testing"
	"time"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) snapshot() ([]kafka.Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...), w.closed
}

func TestProducerFlushesOnClose(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, 8, nil)
	p.Publish([]byte("k1"), []byte("v1"))
	p.Publish([]byte("k2"), []byte("v2"), kafka.Header{Key: HeaderEventType, Value: []byte("OrderPlaced")})
	p.Start(context.Background())
	p.Close()
	p.Close()
	p.WaitClosed()

	msgs, closed := w.snapshot()
	if len(msgs) != 2 || string(msgs[0].Key) != "k1" || string(msgs[1].Value) != "v2" {
		t.Fatalf("written = %+v", msgs)
	}
	if len(msgs[1].Headers) != 1 {
		t.Errorf("headers lost: %+v", msgs[1].Headers)
	}
	if !closed {
		t.Error("writer not closed")
	}
}

func TestProducerDropsWhenFull(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, 1, nil)

	done := make(chan struct{})
	go func() {
		p.Publish([]byte("a"), nil)
		p.Publish([]byte("b"), nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full inbox")
	}

	p.Start(context.Background())
	p.Close()
	p.WaitClosed()
	if msgs, _ := w.snapshot(); len(msgs) != 1 || string(msgs[0].Key) != "a" {
		t.Errorf("written = %+v", msgs)
	}
}

func TestProducerStopsOnContext(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, 4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	p.Publish([]byte("x"), nil)
	cancel()

	select {
	case <-waitClosed(p):
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not stop after cancel")
	}
	if _, closed := w.snapshot(); !closed {
		t.Error("writer not closed")
	}
}

func waitClosed(p *Producer) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(ch)
	}()
	return ch
}

func TestProducerDeliversUntilClosed(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, 16, nil)
	p.Start(context.Background())

	for _, k := range []string{"o1", "o2", "o3"} {
		p.Publish([]byte(k), []byte("{}"))
	}
	p.Close()
	p.WaitClosed()

	if msgs, closed := w.snapshot(); len(msgs) != 3 || !closed {
		t.Fatalf("written = %d, closed = %v; want 3, true", len(msgs), closed)
	}
}
