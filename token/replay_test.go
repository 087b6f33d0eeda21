package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stepupauth/go-mfa-server/token"
)

func TestInMemoryConsumedCache(t *testing.T) {
	cache := token.NewInMemoryConsumedCache()
	ctx := context.Background()

	require.False(t, cache.IsConsumed(ctx, "jti-1"))
	require.NoError(t, cache.MarkConsumed(ctx, "jti-1", time.Now().Add(time.Minute)))
	require.True(t, cache.IsConsumed(ctx, "jti-1"))

	// Cleanup removes only expired entries
	require.NoError(t, cache.MarkConsumed(ctx, "jti-old", time.Now().Add(-time.Minute)))
	cache.Cleanup()
	require.False(t, cache.IsConsumed(ctx, "jti-old"))
	require.True(t, cache.IsConsumed(ctx, "jti-1"))
}

func TestRedisConsumedCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cache := token.NewRedisConsumedCache(rdb)
	ctx := context.Background()

	require.False(t, cache.IsConsumed(ctx, "jti-1"))
	require.NoError(t, cache.MarkConsumed(ctx, "jti-1", time.Now().Add(time.Minute)))
	require.True(t, cache.IsConsumed(ctx, "jti-1"))

	// Entries expire with the assertion
	mr.FastForward(2 * time.Minute)
	require.False(t, cache.IsConsumed(ctx, "jti-1"))

	// An already-expired assertion never needs marking
	require.NoError(t, cache.MarkConsumed(ctx, "jti-2", time.Now().Add(-time.Minute)))
	require.False(t, cache.IsConsumed(ctx, "jti-2"))
}
