package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestFromContext(t *testing.T) {
	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)

	if got := FromContext(ctx); got != l {
		t.Errorf("FromContext() did not return the stored logger")
	}
	if got := FromContext(context.Background()); got != zap.L() {
		t.Errorf("FromContext() without logger should fall back to zap.L()")
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewExample()

	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Errorf("expected fallback logger")
	}
	if got := FromContextOr(context.Background(), nil); got == nil {
		t.Errorf("expected a nop logger, got nil")
	}

	stored := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), stored)
	if got := FromContextOr(ctx, fallback); got != stored {
		t.Errorf("expected context logger to win over fallback")
	}
}

func TestContextWithNilLogger(t *testing.T) {
	ctx := context.Background()
	if got := ContextWithLogger(ctx, nil); got != ctx {
		t.Errorf("nil logger must leave the context untouched")
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New("svc", "test", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
