package ratelimit

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) *RedisRateLimiter {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return NewRedisRateLimiter(client, nil)
}

func TestAllowRequest_UnderLimit(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, err := limiter.AllowRequest(ctx, "wed-123", 5, 60)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 5-(i+1), remaining)
	}
}

func TestAllowRequest_ExceedsLimit(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.AllowRequest(ctx, "wed-123", 2, 60)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, remaining, err := limiter.AllowRequest(ctx, "wed-123", 2, 60)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestAllowRequest_IsolatedPerWedding(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	// Exhaust wed-a
	for i := 0; i < 3; i++ {
		_, _, err := limiter.AllowRequest(ctx, "wed-a", 2, 60)
		require.NoError(t, err)
	}

	// wed-b has its own window
	allowed, remaining, err := limiter.AllowRequest(ctx, "wed-b", 2, 60)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
}
