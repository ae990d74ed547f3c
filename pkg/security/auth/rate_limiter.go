package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter throttles repeated requests per key. Keys are caller-defined;
// the API layer uses client IP + path so credential endpoints can carry a
// tighter limit than the rest of the surface.
type RateLimiter interface {
	// Allow reports whether the request may proceed, along with the
	// remaining budget and when the window resets.
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
	// Reset clears the counter for a key.
	Reset(ctx context.Context, key string) error
	// WithLimit derives a limiter with a different budget over the same
	// backing store.
	WithLimit(maxAttempts int64, window time.Duration) RateLimiter
}

// RedisRateLimiter counts requests in fixed windows backed by Redis, so the
// budget holds across API instances.
type RedisRateLimiter struct {
	client      *redis.Client
	prefix      string
	window      time.Duration
	maxAttempts int64
}

// NewRedisRateLimiter creates a fixed-window limiter.
func NewRedisRateLimiter(client *redis.Client, window time.Duration, maxAttempts int64) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:      client,
		prefix:      "touchgrass:ratelimit:",
		window:      window,
		maxAttempts: maxAttempts,
	}
}

// WithLimit derives a limiter with the given budget.
func (rl *RedisRateLimiter) WithLimit(maxAttempts int64, window time.Duration) RateLimiter {
	return &RedisRateLimiter{
		client:      rl.client,
		prefix:      rl.prefix,
		window:      window,
		maxAttempts: maxAttempts,
	}
}

// Allow increments the key's counter for the current window. The increment
// and expiry run in one pipeline so a crashed request cannot leave an
// immortal counter behind.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	redisKey := rl.prefix + key
	now := time.Now()
	windowStart := now.Truncate(rl.window)
	resetTime := windowStart.Add(rl.window)

	pipe := rl.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireAt(ctx, redisKey, resetTime)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, fmt.Errorf("rate limiter error: %w", err)
	}

	count := incr.Val()
	remaining := rl.maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.maxAttempts, int(remaining), resetTime, nil
}

// Reset clears the counter for a key.
func (rl *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	return rl.client.Del(ctx, rl.prefix+key).Err()
}
