package repository

import (
	"context"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache(t *testing.T) (*miniredis.Miniredis, *RedisProjectionCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisProjectionCache(client, time.Minute)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	_, cache := setupRedisCache(t)
	ctx := context.Background()

	projection := &domain.ItemProjection{
		Last: &models.BookingShort{ID: 1, BookerID: 2, Start: time.Now().UTC().Truncate(time.Second)},
	}
	require.NoError(t, cache.Set(ctx, 10, projection))

	got, err := cache.Get(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Last.ID)
	assert.Nil(t, got.Next)
}

func TestRedisCacheMissIsNilNil(t *testing.T) {
	_, cache := setupRedisCache(t)

	got, err := cache.Get(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheInvalidate(t *testing.T) {
	mr, cache := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 10, &domain.ItemProjection{}))
	assert.True(t, mr.Exists("item_projection:10"))

	require.NoError(t, cache.Invalidate(ctx, 10))
	assert.False(t, mr.Exists("item_projection:10"))
}

func TestRedisCacheTTL(t *testing.T) {
	mr, cache := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 10, &domain.ItemProjection{}))

	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, 10)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheDownReturnsError(t *testing.T) {
	mr, cache := setupRedisCache(t)
	mr.Close()

	_, err := cache.Get(context.Background(), 10)
	assert.Error(t, err)
}
