package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// ErrLockNotAcquired is returned when the lock is still held when ctx ends
var ErrLockNotAcquired = errors.New("lock not acquired")

// Locker hands out short-lived mutual exclusion over a Store
type Locker struct {
	store Store
	ttl   time.Duration
	retry time.Duration
}

// NewLocker creates a Locker whose locks expire after ttl if never released
func NewLocker(store Store, ttl time.Duration) *Locker {
	return &Locker{store: store, ttl: ttl, retry: 100 * time.Millisecond}
}

// Lock blocks until key is acquired or ctx ends. The returned func releases
// the lock only if this holder still owns it.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	lockKey := "lock:" + key

	acquire := func() error {
		ok, err := l.store.SetNX(ctx, lockKey, token, l.ttl)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return ErrLockNotAcquired
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.retry
	b.MaxInterval = time.Second
	b.MaxElapsedTime = 0

	if err := backoff.Retry(acquire, backoff.WithContext(b, ctx)); err != nil {
		if errors.Is(err, ErrLockNotAcquired) || ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s", ErrLockNotAcquired, key)
		}
		return nil, err
	}

	return func() {
		// released with a fresh context so a cancelled caller still unlocks
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = l.store.DeleteIfValue(releaseCtx, lockKey, token)
	}, nil
}
