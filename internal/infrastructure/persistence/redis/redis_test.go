package redis

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xuankong-api/internal/application/plate"
	"xuankong-api/internal/config"
	"xuankong-api/internal/domain/repository"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewClient(&config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewClientFailsWithoutServer(t *testing.T) {
	_, err := NewClient(&config.RedisConfig{Host: "127.0.0.1", Port: 1, DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	client, mr := newTestClient(t)
	require.NoError(t, client.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, client.HealthCheck(context.Background()))
}

func TestPlateStoreRoundTrip(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewPlateStore(NewCache(client))
	ctx := context.Background()

	key := plate.CacheKey(180, 2020)
	got, err := store.GetPlate(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	p, err := plate.NewGenerator(1864, 2223).Generate(180, 2020, nil)
	require.NoError(t, err)
	require.NoError(t, store.SetPlate(ctx, key, p, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(key))

	got, err = store.GetPlate(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p, got)
	assert.NoError(t, got.Validate())
}

func TestPlateStoreCorruptValue(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewPlateStore(NewCache(client))
	require.NoError(t, mr.Set("plate:v2:broken", "{not json"))

	_, err := store.GetPlate(context.Background(), "plate:v2:broken")
	assert.Error(t, err)
}

func TestPlateStorePurge(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewPlateStore(NewCache(client))
	ctx := context.Background()
	gen := plate.NewGenerator(1864, 2223)

	for _, facing := range []float64{0, 90, 180} {
		p, err := gen.Generate(facing, 2004, nil)
		require.NoError(t, err)
		require.NoError(t, store.SetPlate(ctx, plate.CacheKey(facing, 2004), p, time.Hour))
	}
	require.NoError(t, mr.Set("ratelimit:other", "1"))

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, mr.Exists("ratelimit:other"))

	n, err = store.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlateServiceUsesRedisTier(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewPlateStore(NewCache(client))
	ctx := context.Background()

	first := plate.NewService(plate.NewGenerator(1864, 2223), store, 16, time.Hour)
	p, err := first.Get(ctx, 225, 1995, nil)
	require.NoError(t, err)
	assert.True(t, mr.Exists(plate.CacheKey(225, 1995)))

	second := plate.NewService(plate.NewGenerator(1864, 2223), store, 16, time.Hour)
	again, err := second.Get(ctx, 225, 1995, nil)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }
	ctx := context.Background()
	key := repository.RateLimitKey("127.0.0.1", "analysis")
	assert.Equal(t, "ratelimit:127.0.0.1:analysis", key)

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 2-i, res.Remaining)
	}
	res, err := limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)

	clock = clock.Add(61 * time.Second)
	res, err = limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}

func TestRateLimiterConcurrentRequestsStayWithinLimit(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()
	key := repository.RateLimitKey("10.0.0.1", "plate")

	const limit = 5
	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Allow(ctx, key, limit, time.Minute)
			assert.NoError(t, err)
			if res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(limit), allowed.Load())
}

func TestRateLimiterFailsWhenServerDown(t *testing.T) {
	client, mr := newTestClient(t)
	mr.Close()
	_, err := NewRateLimiter(client).Allow(context.Background(), "ratelimit:x:y", 1, time.Minute)
	assert.Error(t, err)
}
