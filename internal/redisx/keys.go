package redisx

import "time"

const (
	// Idempotent order placement: idem:order:create:{user_id}:{idempotency_key} -> order_id | "pending"
	KeyIdemOrderCreate = "idem:order:create:%s:%s"

	// Cached order view: order_view:{order_id} -> JSON
	KeyOrderView = "order_view:%s"

	// Event processing dedup: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Sliding-window limiter: rate_limit:orders:user:{user_id}
	KeyRateLimit = "rate_limit:orders:user:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	// a claim left by a crashed request expires after this
	TTLIdempotencyPending = 30 * time.Second
	TTLOrderView   = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
