// Package otplimit bounds phone OTP verification attempts per user. It is an
// abuse control, not an OTP validator; code checking itself stays out of
// scope.
package otplimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
)

const attemptKeyPrefix = "otp:attempts:"

// Limiter counts OTP attempts inside a rolling window and rejects the
// attempt once the budget is spent.
type Limiter interface {
	// Allow registers one attempt and returns the total inside the current
	// window. A TooManyAttempts failure carries the validation code so the
	// client gets a 400, mirroring the rest of the input errors.
	Allow(ctx context.Context, userID id.UserID) (int, error)
}

// RedisLimiter is the production implementation; the counter lives in Redis
// so the budget holds across instances.
type RedisLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRedisLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, userID id.UserID) (int, error) {
	key := attemptKeyPrefix + userID.String()

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment otp attempts: %w", err)
	}
	if count == 1 {
		// First attempt opens the window.
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return 0, fmt.Errorf("set otp attempt window: %w", err)
		}
	}
	if int(count) > l.maxAttempts {
		return int(count), dErrors.New(dErrors.CodeValidation, "too many verification attempts, try again later")
	}
	return int(count), nil
}

// InMemoryLimiter backs development and tests where Redis is not configured.
type InMemoryLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	counters    map[id.UserID]*windowCounter
}

type windowCounter struct {
	count     int
	expiresAt time.Time
}

func NewInMemoryLimiter(maxAttempts int, window time.Duration) *InMemoryLimiter {
	return &InMemoryLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		counters:    make(map[id.UserID]*windowCounter),
	}
}

func (l *InMemoryLimiter) Allow(_ context.Context, userID id.UserID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	counter, ok := l.counters[userID]
	if !ok || now.After(counter.expiresAt) {
		counter = &windowCounter{expiresAt: now.Add(l.window)}
		l.counters[userID] = counter
	}
	counter.count++
	if counter.count > l.maxAttempts {
		return counter.count, dErrors.New(dErrors.CodeValidation, "too many verification attempts, try again later")
	}
	return counter.count, nil
}
