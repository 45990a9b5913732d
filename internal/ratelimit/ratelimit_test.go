package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestMemoryStore_WindowReset(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore().WithClock(clock.Now)
	ctx := context.Background()
	const n = 3
	window := 15 * time.Minute

	for i := 0; i < n; i++ {
		ok, err := store.CheckAndIncrement(ctx, "k", window, n)
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i+1)
		clock.Advance(time.Minute)
	}

	ok, err := store.CheckAndIncrement(ctx, "k", window, n)
	require.NoError(t, err)
	assert.False(t, ok, "request over the limit must be rejected")

	// Window started at t0; move to t0 + window + 1ms.
	clock.Advance(window - 3*time.Minute + time.Millisecond)
	ok, err = store.CheckAndIncrement(ctx, "k", window, n)
	require.NoError(t, err)
	assert.True(t, ok, "request after the window must pass")

	for i := 0; i < n-1; i++ {
		ok, _ = store.CheckAndIncrement(ctx, "k", window, n)
		assert.True(t, ok)
	}
	ok, _ = store.CheckAndIncrement(ctx, "k", window, n)
	assert.False(t, ok, "fresh window starts at a count of one")
}

func TestMemoryStore_RejectionDoesNotExtendWindow(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore().WithClock(clock.Now)
	ctx := context.Background()

	ok, _ := store.CheckAndIncrement(ctx, "k", time.Minute, 1)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		clock.Advance(10 * time.Second)
		ok, _ = store.CheckAndIncrement(ctx, "k", time.Minute, 1)
		assert.False(t, ok)
	}
	clock.Advance(10 * time.Second)
	ok, _ = store.CheckAndIncrement(ctx, "k", time.Minute, 1)
	assert.True(t, ok)
}

func TestMemoryStore_ConcurrentIncrementsAreNotLost(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	const max = 50

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.CheckAndIncrement(ctx, "shared", time.Hour, max); ok {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(max), accepted.Load())
}

func TestMemoryStore_SweepsExpiredWindows(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore().WithClock(clock.Now)
	store.sweepThreshold = 10
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, _ = store.CheckAndIncrement(ctx, fmt.Sprintf("client-%d", i), time.Minute, 3)
	}
	require.Equal(t, 10, store.Len())

	clock.Advance(2 * time.Minute)
	_, _ = store.CheckAndIncrement(ctx, "newcomer", time.Minute, 3)
	assert.Equal(t, 1, store.Len())
}

func TestLimiter_PoliciesAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	contact := NewLimiter(store, ContactPolicy)
	quote := NewLimiter(store, QuotePolicy)
	ctx := context.Background()

	for i := 0; i < ContactPolicy.Max; i++ {
		ok, err := contact.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, _ := contact.Allow(ctx, "203.0.113.7")
	assert.False(t, ok)

	for i := 0; i < QuotePolicy.Max; i++ {
		ok, err := quote.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, ok, "contact traffic must not consume quote quota")
	}
	ok, _ = quote.Allow(ctx, "203.0.113.7")
	assert.False(t, ok)

	ok, _ = contact.Allow(ctx, "198.51.100.1")
	assert.True(t, ok, "other clients are unaffected")
}

func TestPolicies(t *testing.T) {
	assert.Equal(t, 15*time.Minute, ContactPolicy.Window)
	assert.Equal(t, 3, ContactPolicy.Max)
	assert.Equal(t, 30*time.Minute, QuotePolicy.Window)
	assert.Equal(t, 2, QuotePolicy.Max)
}

type errStore struct{}

func (errStore) CheckAndIncrement(context.Context, string, time.Duration, int) (bool, error) {
	return false, errors.New("connection refused")
}

func TestLimiter_WrapsStoreErrors(t *testing.T) {
	_, err := NewLimiter(errStore{}, QuotePolicy).Allow(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quote")
}

func TestRedisStore_WindowReset(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()
	window := 30 * time.Minute

	for i := 0; i < 2; i++ {
		ok, err := store.CheckAndIncrement(ctx, "ratelimit:quote:a", window, 2)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := store.CheckAndIncrement(ctx, "ratelimit:quote:a", window, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := mr.Get("ratelimit:quote:a")
	require.NoError(t, err)
	assert.Equal(t, "2", val, "rejected requests are not counted")
	assert.True(t, mr.TTL("ratelimit:quote:a") > 0)

	mr.FastForward(window + time.Millisecond)
	ok, err = store.CheckAndIncrement(ctx, "ratelimit:quote:a", window, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	val, _ = mr.Get("ratelimit:quote:a")
	assert.Equal(t, "1", val)
}

func TestRedisStore_LimiterKeysAreNamespaced(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	_, err := NewLimiter(store, ContactPolicy).Allow(ctx, "198.51.100.1")
	require.NoError(t, err)
	_, err = NewLimiter(store, QuotePolicy).Allow(ctx, "198.51.100.1")
	require.NoError(t, err)

	assert.True(t, mr.Exists("ratelimit:contact:198.51.100.1"))
	assert.True(t, mr.Exists("ratelimit:quote:198.51.100.1"))
}

func TestRedisStore_ErrorWhenUnavailable(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client)
	mr.Close()

	_, err := store.CheckAndIncrement(context.Background(), "k", time.Minute, 1)
	assert.Error(t, err)
}
