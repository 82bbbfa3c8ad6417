package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultResetWindow = time.Minute

// ResetThrottle allows one password reset request per e-mail per window.
// Key format: reset:throttle:<email>
type ResetThrottle struct {
	client *redis.Client
	window time.Duration
}

func NewResetThrottle(client *redis.Client, window time.Duration) *ResetThrottle {
	if window <= 0 {
		window = defaultResetWindow
	}
	return &ResetThrottle{client: client, window: window}
}

// Allow reports whether no reset was marked for email within the window.
func (t *ResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Exists(ctx, t.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("reset throttle check: %w", err)
	}
	return n == 0, nil
}

// Mark starts the throttle window for email.
func (t *ResetThrottle) Mark(ctx context.Context, email string) error {
	if err := t.client.Set(ctx, t.key(email), "1", t.window).Err(); err != nil {
		return fmt.Errorf("reset throttle mark: %w", err)
	}
	return nil
}

func (t *ResetThrottle) key(email string) string {
	return "reset:throttle:" + email
}
