package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisProjectionCache хранит проекции last/next по вещам в Redis.
type RedisProjectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisProjectionCache(client *redis.Client, ttl time.Duration) *RedisProjectionCache {
	return &RedisProjectionCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisProjectionCache) Get(ctx context.Context, itemID int64) (*domain.ItemProjection, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	key := projectionKey(itemID)
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get projection from redis: %w", err)
	}

	var projection domain.ItemProjection
	if err := json.Unmarshal([]byte(val), &projection); err != nil {
		return nil, fmt.Errorf("failed to unmarshal projection: %w", err)
	}
	return &projection, nil
}

func (r *RedisProjectionCache) Set(ctx context.Context, itemID int64, projection *domain.ItemProjection) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(projection)
	if err != nil {
		return fmt.Errorf("failed to marshal projection: %w", err)
	}

	if err := r.client.Set(ctx, projectionKey(itemID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set projection in redis: %w", err)
	}
	return nil
}

func (r *RedisProjectionCache) Invalidate(ctx context.Context, itemID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, projectionKey(itemID)).Err(); err != nil {
		return fmt.Errorf("failed to delete projection from redis: %w", err)
	}
	return nil
}

func projectionKey(itemID int64) string {
	return fmt.Sprintf("item_projection:%d", itemID)
}
