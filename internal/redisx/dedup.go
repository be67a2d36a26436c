package redisx

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
)

// Dedup marks event ids as processed for one consuming service.
type Dedup struct {
	Redis   *redis.Client
	Service string
}

// MarkSeen returns true when eventID was not seen before.
func (d *Dedup) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	return d.Redis.SetNX(ctx, fmt.Sprintf(KeyDedup, d.Service, eventID), "1", TTLDedup).Result()
}
