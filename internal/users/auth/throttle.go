// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/taibuivan/tastedees/internal/platform/constants"
)

// Throttle bounds credential attempts (login and setup) per client key.
type Throttle interface {
	// Allow records an attempt for key and reports whether it may proceed.
	// When it may not, retryAfter says how long to wait.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// # In-process throttle

// MemoryThrottle is a token bucket per key. It only protects a single process.
type MemoryThrottle struct {
	mu       sync.Mutex
	limiters map[string]*throttleEntry
	limit    rate.Limit
	burst    int
	window   time.Duration
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

/*
NewMemoryThrottle allows attempts per window with bursts of up to attempts.

Keys idle for a full window are swept every RateLimitCleanupInterval until ctx
is done. By then their bucket has refilled, so dropping them changes nothing.
*/
func NewMemoryThrottle(ctx context.Context, attempts int, window time.Duration) *MemoryThrottle {
	t := &MemoryThrottle{
		limiters: make(map[string]*throttleEntry),
		limit:    rate.Every(window / time.Duration(attempts)),
		burst:    attempts,
		window:   window,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				t.Evict(now)
			case <-ctx.Done():
				return
			}
		}
	}()

	return t
}

func (t *MemoryThrottle) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()

	t.mu.Lock()
	entry, ok := t.limiters[key]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[key] = entry
	}
	entry.lastSeen = now
	t.mu.Unlock()

	reservation := entry.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// Evict drops keys not seen for a full window before now and returns how
// many remain.
func (t *MemoryThrottle) Evict(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, entry := range t.limiters {
		if now.Sub(entry.lastSeen) >= t.window {
			delete(t.limiters, key)
		}
	}
	return len(t.limiters)
}

// # Redis throttle

// RedisThrottle is a fixed-window counter shared by every process that points
// at the same redis.
type RedisThrottle struct {
	client   *redis.Client
	attempts int64
	window   time.Duration
}

// NewRedisThrottle allows attempts per window per key.
func NewRedisThrottle(client *redis.Client, attempts int, window time.Duration) *RedisThrottle {
	return &RedisThrottle{client: client, attempts: int64(attempts), window: window}
}

/*
Allow increments the key's counter, starting the window on the first hit.

Returns:
  - error: connectivity failures; callers should fail open
*/
func (t *RedisThrottle) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := constants.RedisPrefixLoginAttempts + key

	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, t.window)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, fmt.Errorf("redis_throttle_allow_failed: %w", err)
	}

	if incr.Val() > t.attempts {
		wait := ttl.Val()
		if wait <= 0 {
			wait = t.window
		}
		return false, wait, nil
	}
	return true, 0, nil
}
