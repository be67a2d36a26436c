package redisx

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	"time"
)

// KEYS[1]=limiter key; ARGV: now(ms), window start(ms), window seconds, member, limit.
// Returns the count in the window after this request, or -1 when the limit is reached.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)
local count = redis.call('ZCARD', key)
if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
end
return -1
`)

type RateLimiter struct {
	Redis  *redis.Client
	Limit  int
	Window time.Duration
}

// Allow records one request for userID and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	now := time.Now()
	windowSec := int64(l.Window / time.Second)
	if windowSec <= 0 {
		windowSec = 1
	}
	start := now.Add(-time.Duration(windowSec) * time.Second).UnixMilli()
	member := fmt.Sprintf("%d-%d", now.UnixMilli(), now.UnixNano())

	res, err := slidingWindow.Run(ctx, l.Redis, []string{fmt.Sprintf(KeyRateLimit, userID)},
		now.UnixMilli(), start, windowSec, member, l.Limit).Int()
	if err != nil {
		return false, err
	}
	return res >= 0, nil
}
