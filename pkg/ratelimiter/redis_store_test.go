package ratelimiter_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electroredes/contactguard/pkg/ratelimiter"
)

func newRedisStore(t *testing.T) *ratelimiter.RedisStore {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	return ratelimiter.NewRedisStore(client,
		ratelimiter.WithKeyPrefix("contactguard-test:"+uuid.NewString()+":"),
		ratelimiter.WithRecordTTL(time.Minute),
	)
}

func TestRedisStore_MatchesMemoryStore(t *testing.T) {
	ctx := context.Background()
	redisStore := newRedisStore(t)

	memClock, redisClock := newFakeClock(), newFakeClock()
	mem := newLimiter(t, ratelimiter.NewMemoryStore(), memClock)
	red := newLimiter(t, redisStore, redisClock)

	steps := []time.Duration{0, time.Second, time.Second, time.Second, 90 * time.Second, 210 * time.Second, time.Second}
	for i, step := range steps {
		memClock.Advance(step)
		redisClock.Advance(step)

		want, err := mem.Allow(ctx, "ip")
		require.NoError(t, err)
		got, err := red.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.Equal(t, want, got, "step %d", i)
	}

	require.NoError(t, red.Reset(ctx, "ip"))
	d, err := red.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.Equal(t, 2, d.AttemptsRemaining)
}

func TestRedisStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	l, err := ratelimiter.New(store, ratelimiter.Config{
		MaxAttempts:   3,
		Window:        time.Minute,
		BlockDuration: time.Minute,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var allowed atomic.Int64
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d, err := l.Allow(ctx, "shared"); err == nil && d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, allowed.Load(), int64(3))
}
