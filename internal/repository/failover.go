package repository

import (
	"context"
	"sync/atomic"
	"time"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverProjectionCache prefers the primary cache and falls back to the
// secondary while the primary is down, probing for recovery once a minute.
type FailoverProjectionCache struct {
	primary   domain.ProjectionCache
	fallback  domain.ProjectionCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nano
}

func NewFailoverProjectionCache(primary, fallback domain.ProjectionCache, logger *zerolog.Logger) *FailoverProjectionCache {
	return &FailoverProjectionCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverProjectionCache) Get(ctx context.Context, itemID int64) (*domain.ItemProjection, error) {
	if !r.isDown.Load() {
		projection, err := r.primary.Get(ctx, itemID)
		if err == nil {
			return projection, nil
		}
		r.markDown(err)
	}

	if r.shouldProbe() {
		projection, err := r.primary.Get(ctx, itemID)
		if err == nil {
			r.isDown.Store(false)
			return projection, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.Get(ctx, itemID)
}

func (r *FailoverProjectionCache) Set(ctx context.Context, itemID int64, projection *domain.ItemProjection) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, itemID, projection)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.Set(ctx, itemID, projection)
}

func (r *FailoverProjectionCache) Invalidate(ctx context.Context, itemID int64) error {
	// Инвалидируем оба уровня: после failover проекция могла осесть в любом.
	var primaryErr error
	if !r.isDown.Load() {
		primaryErr = r.primary.Invalidate(ctx, itemID)
		if primaryErr != nil {
			r.markDown(primaryErr)
		}
	}
	if err := r.fallback.Invalidate(ctx, itemID); err != nil {
		return err
	}
	if primaryErr != nil && r.isDown.Load() {
		return nil
	}
	return primaryErr
}

func (r *FailoverProjectionCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary projection cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverProjectionCache) shouldProbe() bool {
	return r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute
}
