package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, limit)
	l.now = func() time.Time { return time.Date(2026, 3, 15, 8, 30, 0, 0, time.FixedZone("JST", 9*3600)) }
	return l, mr
}

func TestRedisLimiter_Accumulates(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, 1000)

	allowed, err := l.CheckLimit(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, allowed, "no usage recorded yet")

	require.NoError(t, l.Increment(ctx, "203.0.113.7", 600))
	allowed, err = l.CheckLimit(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, l.Increment(ctx, "203.0.113.7", 400))
	allowed, err = l.CheckLimit(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Keys are per UTC day.
	key := "usage:2026-03-14:203.0.113.7"
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "1000", got)
	assert.Equal(t, usageTTL, mr.TTL(key))

	allowed, err = l.CheckLimit(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, allowed, "other clients are unaffected")
}

func TestRedisLimiter_NoLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 0)
	require.NoError(t, l.Increment(context.Background(), "c", 1_000_000))

	allowed, err := l.CheckLimit(context.Background(), "c")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_Errors(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, 10)

	require.NoError(t, mr.Set("usage:2026-03-14:c", "lots"))
	_, err := l.CheckLimit(ctx, "c")
	assert.ErrorContains(t, err, "parse usage")

	mr.Close()
	_, err = l.CheckLimit(ctx, "c")
	assert.ErrorContains(t, err, "read usage")
}
