package repository

import (
	"context"
	"sync"
	"time"

	"shareit/internal/domain"
)

// MemoryProjectionCache is the in-process fallback cache with TTL eviction on
// read.
type MemoryProjectionCache struct {
	entries sync.Map
	ttl     time.Duration
}

type memoryEntry struct {
	projection *domain.ItemProjection
	expiresAt  time.Time
}

func NewMemoryProjectionCache(ttl time.Duration) *MemoryProjectionCache {
	return &MemoryProjectionCache{ttl: ttl}
}

func (r *MemoryProjectionCache) Get(ctx context.Context, itemID int64) (*domain.ItemProjection, error) {
	val, ok := r.entries.Load(itemID)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		r.entries.Delete(itemID)
		return nil, nil
	}
	return entry.projection, nil
}

func (r *MemoryProjectionCache) Set(ctx context.Context, itemID int64, projection *domain.ItemProjection) error {
	r.entries.Store(itemID, &memoryEntry{
		projection: projection,
		expiresAt:  time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryProjectionCache) Invalidate(ctx context.Context, itemID int64) error {
	r.entries.Delete(itemID)
	return nil
}
