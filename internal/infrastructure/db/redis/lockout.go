package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed login attempts per username in Redis.
// Key format: lockout:<username>. The counter expires window after the first
// failure, so a lockout clears itself without any background job.
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
func NewLoginLimiter(client *redis.Client, maxFailures int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, maxFailures: maxFailures, window: window}
}

// IsLocked reports whether the username has exhausted its failure budget.
func (l *LoginLimiter) IsLocked(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lockout check: %w", err)
	}
	return n >= l.maxFailures, nil
}

// RecordFailure counts one failed attempt and returns the running total.
// The expiry is set only when the key is created, so the window runs from
// the first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) (int, error) {
	key := l.key(username)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("lockout incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return int(n), fmt.Errorf("lockout expire: %w", err)
		}
	}
	return int(n), nil
}

// Reset clears the failure count after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	return l.client.Del(ctx, l.key(username)).Err()
}

func (l *LoginLimiter) key(username string) string {
	return fmt.Sprintf("lockout:%s", username)
}
