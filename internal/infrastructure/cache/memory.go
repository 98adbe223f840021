package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a simple in-memory key-value store with expiration
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	stop  chan struct{}
	once  sync.Once
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]memoryItem),
		stop:  make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired items
	go store.cleanupExpired(5 * time.Minute)

	return store
}

// Set stores a key-value pair with expiration
func (ms *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = memoryItem{value: value, expireTime: time.Now().Add(ttl)}
	return nil
}

// Take retrieves and removes a value
func (ms *MemoryStore) Take(_ context.Context, key string) (string, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, ok := ms.live(key)
	if !ok {
		return "", false, nil
	}
	delete(ms.items, key)
	return item.value, true, nil
}

// SetNX stores the value only when the key is absent or expired
func (ms *MemoryStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.live(key); ok {
		return false, nil
	}
	ms.items[key] = memoryItem{value: value, expireTime: time.Now().Add(ttl)}
	return true, nil
}

// DeleteIfValue removes the key when it still holds value
func (ms *MemoryStore) DeleteIfValue(_ context.Context, key, value string) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, ok := ms.live(key)
	if !ok || item.value != value {
		return false, nil
	}
	delete(ms.items, key)
	return true, nil
}

// Close stops the cleanup goroutine
func (ms *MemoryStore) Close() error {
	ms.once.Do(func() { close(ms.stop) })
	return nil
}

// live must be called with mu held
func (ms *MemoryStore) live(key string) (memoryItem, bool) {
	item, exists := ms.items[key]
	if !exists {
		return memoryItem{}, false
	}
	if time.Now().After(item.expireTime) {
		delete(ms.items, key)
		return memoryItem{}, false
	}
	return item, true
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := time.Now()
			for key, item := range ms.items {
				if now.After(item.expireTime) {
					delete(ms.items, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}
