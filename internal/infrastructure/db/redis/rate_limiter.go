package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amref/learning-api/internal/core/ports"
)

// fixedWindow increments the counter and sets its expiry on first hit.
// Returns {count, ttl_ms}.
var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return { count, ttl }
`)

// RateLimiter is a fixed-window request counter keyed by caller.
// Key format: <prefix>:<key>
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

var _ ports.RateLimiter = (*RateLimiter)(nil)

func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow counts one hit against key and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	vals, err := fixedWindow.Run(ctx, l.client, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit: %w", err)
	}
	if len(vals) != 2 {
		return ports.RateDecision{}, fmt.Errorf("rate limit: unexpected script result %v", vals)
	}

	count, ttl := vals[0], vals[1]
	d := ports.RateDecision{Limit: l.limit, Remaining: l.limit - int(count)}
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	d.Allowed = count <= int64(l.limit)
	if !d.Allowed && ttl > 0 {
		d.RetryAfter = time.Duration(ttl) * time.Millisecond
	}
	return d, nil
}
