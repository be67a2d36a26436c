package redisx

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
)

// idemPending marks a key whose order is still being placed. Order ids are
// uuids, so it never collides with a stored id.
const idemPending = "pending"

// Idempotency maps a client-supplied Idempotency-Key to the order it created.
// Keys are scoped per user.
type Idempotency struct {
	Redis *redis.Client
}

// Claim reserves the key for the caller with SETNX. When the key is already
// taken it returns the stored order id, or "" while the first request is
// still in flight.
func (i *Idempotency) Claim(ctx context.Context, userID, key string) (string, bool, error) {
	k := fmt.Sprintf(KeyIdemOrderCreate, userID, key)
	ok, err := i.Redis.SetNX(ctx, k, idemPending, TTLIdempotencyPending).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}
	id, err := i.Redis.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) || id == idemPending {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, false, nil
}

// Complete replaces the pending marker with the placed order id.
func (i *Idempotency) Complete(ctx context.Context, userID, key, orderID string) error {
	return i.Redis.Set(ctx, fmt.Sprintf(KeyIdemOrderCreate, userID, key), orderID, TTLIdempotency).Err()
}

// Abandon releases a claim whose order was not placed, so the client may retry.
func (i *Idempotency) Abandon(ctx context.Context, userID, key string) error {
	return i.Redis.Del(ctx, fmt.Sprintf(KeyIdemOrderCreate, userID, key)).Err()
}
