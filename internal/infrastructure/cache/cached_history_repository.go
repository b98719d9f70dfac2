package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/logger"
)

// CachedHistoryRepository is a read-through cache in front of a
// RotationHistoryRepository. Cache failures are logged and never fail a call.
type CachedHistoryRepository struct {
	inner  garden.RotationHistoryRepository
	cache  HistoryCache
	ttl    time.Duration
	logger *zap.Logger
}

var _ garden.RotationHistoryRepository = (*CachedHistoryRepository)(nil)

// NewCachedHistoryRepository wraps inner with cache
func NewCachedHistoryRepository(inner garden.RotationHistoryRepository, cache HistoryCache, ttl time.Duration, log *zap.Logger) *CachedHistoryRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedHistoryRepository{inner: inner, cache: cache, ttl: ttl, logger: log}
}

// FindByPlot serves the plot's history from cache, loading it on a miss
func (r *CachedHistoryRepository) FindByPlot(ctx context.Context, plotID uuid.UUID) ([]garden.RotationHistoryRecord, error) {
	records, found, err := r.cache.Get(ctx, plotID)
	if err != nil {
		logger.WithLogger(ctx, r.logger).Warn("Rotation history cache read failed", zap.Error(err))
	} else if found {
		return records, nil
	}

	records, err = r.inner.FindByPlot(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, plotID, records, r.ttl); err != nil {
		logger.WithLogger(ctx, r.logger).Warn("Rotation history cache write failed", zap.Error(err))
	}
	return records, nil
}

// FindByPlotAndYear reads through to the store
func (r *CachedHistoryRepository) FindByPlotAndYear(ctx context.Context, plotID uuid.UUID, year int) (*garden.RotationHistoryRecord, error) {
	return r.inner.FindByPlotAndYear(ctx, plotID, year)
}

// Save persists the record and drops the plot's cached history
func (r *CachedHistoryRepository) Save(ctx context.Context, record *garden.RotationHistoryRecord) error {
	if err := r.inner.Save(ctx, record); err != nil {
		return err
	}
	r.Invalidate(ctx, record.PlotID)
	return nil
}

// DeleteByPlot removes the records and drops the plot's cached history
func (r *CachedHistoryRepository) DeleteByPlot(ctx context.Context, plotID uuid.UUID) error {
	if err := r.inner.DeleteByPlot(ctx, plotID); err != nil {
		return err
	}
	r.Invalidate(ctx, plotID)
	return nil
}

// Invalidate drops the plot's cached history
func (r *CachedHistoryRepository) Invalidate(ctx context.Context, plotID uuid.UUID) {
	if err := r.cache.Delete(ctx, plotID); err != nil {
		logger.WithLogger(ctx, r.logger).Warn("Rotation history cache invalidation failed",
			zap.String("plot_id", plotID.String()), zap.Error(err))
	}
}
