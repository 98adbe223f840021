package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_TakeIsOneTime(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))

	value, ok, err := store.Take(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	_, ok, err = store.Take(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := store.Take(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.SetNX(ctx, "k", "fresh", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_DeleteIfValue(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	ok, err := store.SetNX(ctx, "lock", "owner-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.SetNX(ctx, "lock", "owner-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := store.DeleteIfValue(ctx, "lock", "owner-2")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.DeleteIfValue(ctx, "lock", "owner-1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestLocker_SerialisesHolders(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	locker := NewLocker(store, time.Minute)
	locker.retry = time.Millisecond

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "credential:org")
			require.NoError(t, err)
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestLocker_GivesUpWhenContextEnds(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	locker := NewLocker(store, time.Minute)

	unlock, err := locker.Lock(context.Background(), "busy")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "busy")
	assert.ErrorIs(t, err, ErrLockNotAcquired)
}
