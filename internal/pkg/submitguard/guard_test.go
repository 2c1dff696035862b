package submitguard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func exerciseGuard(t *testing.T, g Guard) {
	ctx := context.Background()

	first, err := g.Claim(ctx, "sub-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := g.Claim(ctx, "sub-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, second, "resent form must not be processed twice")

	other, err := g.Claim(ctx, "sub-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, other)

	require.NoError(t, g.Release(ctx, "sub-1"))
	again, err := g.Claim(ctx, "sub-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)

	empty, err := g.Claim(ctx, "", time.Minute)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestMemoryGuard(t *testing.T) {
	exerciseGuard(t, NewMemoryGuard())
}

func TestMemoryGuard_Expiry(t *testing.T) {
	g := NewMemoryGuard()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	ok, _ := g.Claim(context.Background(), "sub", time.Second)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	ok, _ = g.Claim(context.Background(), "sub", time.Second)
	assert.True(t, ok)
}

func TestRedisGuard(t *testing.T) {
	client, _ := setupTestRedis(t)
	exerciseGuard(t, NewRedisGuard(client))
}

func TestRedisGuard_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	g := NewRedisGuard(client)

	ok, err := g.Claim(context.Background(), "sub", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)

	ok, err = g.Claim(context.Background(), "sub", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
