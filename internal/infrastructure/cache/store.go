package cache

import (
	"context"
	"time"
)

// Store is the small key-value surface the service needs from a cache:
// one-time tokens (OAuth state) and short-lived locks.
type Store interface {
	// Set stores value under key for ttl
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Take returns the value and deletes the key atomically
	Take(ctx context.Context, key string) (string, bool, error)

	// SetNX stores value only if key does not exist
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// DeleteIfValue deletes key only if it still holds value
	DeleteIfValue(ctx context.Context, key, value string) (bool, error)
}
