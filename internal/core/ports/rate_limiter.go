package ports

import (
	"context"
	"time"
)

// RateDecision is the outcome of counting one hit against a rate limit.
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter counts hits per key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}
