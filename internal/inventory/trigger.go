package inventory

import (
	"context"
	"go.uber.org/zap"
	"sync"
	"time"
)

// Scanner runs one low-stock pass.
type Scanner interface {
	ScanAndNotify(ctx context.Context)
}

// AsyncTrigger runs a low-stock scan in the background after each order.
// The caller never waits on it and its failures never reach the caller.
type AsyncTrigger struct {
	scanner Scanner
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewAsyncTrigger(s Scanner, timeout time.Duration, log *zap.Logger) *AsyncTrigger {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AsyncTrigger{scanner: s, timeout: timeout, log: log}
}

func (t *AsyncTrigger) Trigger(ctx context.Context, orderID string) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				t.log.Error("low_stock_trigger_panicked", zap.String("order_id", orderID), zap.Any("panic", p))
			}
		}()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
		defer cancel()
		t.scanner.ScanAndNotify(sctx)
	}()
}

// Wait blocks until every scan started so far has finished.
func (t *AsyncTrigger) Wait() { t.wg.Wait() }
