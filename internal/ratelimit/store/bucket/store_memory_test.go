package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryAllowWithinLimit(t *testing.T) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()

	for i := range 3 {
		res, err := store.Allow(ctx, "rl:subscribe:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := store.Allow(ctx, "rl:subscribe:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Positive(t, res.RetryAfter)
}

func TestInMemoryWindowSlides(t *testing.T) {
	store := NewInMemoryBucketStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	res, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, res.Allowed)

	now = now.Add(30 * time.Second)
	res, err = store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 30, res.RetryAfter)

	now = now.Add(31 * time.Second)
	res, err = store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestInMemoryKeysAreIndependent(t *testing.T) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()

	_, err := store.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	res, err := store.Allow(ctx, "b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestInMemoryReset(t *testing.T) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()

	_, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "k"))

	res, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestInMemoryConcurrentNeverExceedsLimit(t *testing.T) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()
	const limit = 10

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := store.Allow(ctx, "k", limit, time.Minute)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, limit, allowed)
}
