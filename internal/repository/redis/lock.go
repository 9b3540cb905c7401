package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/reeltube/reeltube/internal/repository"
)

// releaseScript deletes a lock key only if the caller still owns it,
// so a lock that expired and was re-acquired elsewhere is never stolen.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// Lock implements repository.DistributedLock using SET NX with per-key
// ownership tokens.
type Lock struct {
	client *redis.Client

	mu     sync.Mutex
	tokens map[string]string
}

// NewLock creates a Redis-backed distributed lock.
func NewLock(client *redis.Client) *Lock {
	return &Lock{
		client: client,
		tokens: make(map[string]string),
	}
}

// Acquire attempts to acquire a lock. The lock expires after ttl even if
// the holder crashes before releasing it.
func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if acquired {
		l.mu.Lock()
		l.tokens[key] = token
		l.mu.Unlock()
	}
	return acquired, nil
}

// AcquireWithRetry attempts to acquire a lock with retries.
func (l *Lock) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	for i := 0; i <= maxRetries; i++ {
		acquired, err := l.Acquire(ctx, key, ttl)
		if err != nil {
			return false, err
		}
		if acquired {
			return true, nil
		}

		if i < maxRetries {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	return false, nil
}

// Release releases a lock if this instance still owns it.
func (l *Lock) Release(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return false, repository.ErrLockNotOwned
	}

	n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return n > 0, nil
}

// Ensure Lock implements repository.DistributedLock.
var _ repository.DistributedLock = (*Lock)(nil)
