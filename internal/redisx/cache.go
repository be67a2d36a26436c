package redisx

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"time"
)

// OrderCache keeps rendered order views. Redis is never the source of truth;
// callers fall back to the store on any miss or error.
type OrderCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewOrderCache(rdb *redis.Client) *OrderCache {
	return &OrderCache{Redis: rdb, TTL: TTLOrderView}
}

func (c *OrderCache) Get(ctx context.Context, orderID string) ([]byte, bool, error) {
	b, err := c.Redis.Get(ctx, fmt.Sprintf(KeyOrderView, orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *OrderCache) Set(ctx context.Context, orderID string, view []byte) error {
	return c.Redis.Set(ctx, fmt.Sprintf(KeyOrderView, orderID), view, c.TTL).Err()
}

// Invalidate drops the cached view after a status change.
func (c *OrderCache) Invalidate(ctx context.Context, orderID string) error {
	return c.Redis.Del(ctx, fmt.Sprintf(KeyOrderView, orderID)).Err()
}
