package kafka

import (
	"context"
	"errors"
	"github.com/segmentio/kafka-go"
	"sync"
	"testing"
	"time"
)

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	fetchErr  error
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.fetchErr != nil {
		r.mu.Unlock()
		return kafka.Message{}, r.fetchErr
	}
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func TestConsumerCommitsOnlyHandled(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{{Offset: 1}, {Offset: 2}, {Offset: 3}}}
	c := NewConsumerWithReader(r, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	seen := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Start(ctx, func(_ context.Context, m kafka.Message) error {
			mu.Lock()
			seen++
			n := seen
			mu.Unlock()
			if n == 3 {
				defer cancel()
			}
			if m.Offset == 2 {
				return errors.New("transient")
			}
			return nil
		})
	}()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("consumer did not stop")
	}

	got := r.commits()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("committed = %v, want [1 3]", got)
	}
	if !r.closed {
		t.Error("reader not closed")
	}
}

func TestConsumerReturnsFetchError(t *testing.T) {
	boom := errors.New("group rebalance failed")
	r := &fakeReader{fetchErr: boom}
	c := NewConsumerWithReader(r, 2, nil)

	err := c.Start(context.Background(), func(context.Context, kafka.Message) error { return nil })
	if !errors.Is(err, boom) {
		t.Fatalf("Start() error = %v, want %v", err, boom)
	}
}
