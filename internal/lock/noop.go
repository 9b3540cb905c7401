package lock

import (
	"context"
	"time"
)

// NoopLocker implements Locker without any actual locking.
// Useful for tests and for deployments where the database's own
// transactional guarantees are considered sufficient.
type NoopLocker struct{}

// NewNoopLocker creates a new no-op locker.
func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

// Acquire always succeeds.
func (n *NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

// AcquireWithRetry always succeeds.
func (n *NoopLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	return true, nil
}

// Release always reports the lock as released.
func (n *NoopLocker) Release(ctx context.Context, key string) (bool, error) {
	return true, nil
}

// Ensure NoopLocker implements Locker.
var _ Locker = (*NoopLocker)(nil)
