package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/config"
)

// HistoryCacheFactory creates a history cache based on configuration
type HistoryCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// HistoryCacheFactoryOption is a functional option for configuring the factory
type HistoryCacheFactoryOption func(*HistoryCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) HistoryCacheFactoryOption {
	return func(f *HistoryCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) HistoryCacheFactoryOption {
	return func(f *HistoryCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewHistoryCacheFactory creates a new factory
func NewHistoryCacheFactory(cfg config.RedisConfig, opts ...HistoryCacheFactoryOption) *HistoryCacheFactory {
	f := &HistoryCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise an in-memory cache.
func (f *HistoryCacheFactory) CreateCache() (HistoryCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory rotation history cache")
		return f.createInMemory(), nil
	}

	c, err := NewRedisHistoryCache(f.redisConfig,
		WithRedisLogger(f.logger.Named("history_cache")),
		WithRedisTTL(f.redisConfig.HistoryTTL),
	)
	if err == nil {
		f.logger.Info("Using Redis rotation history cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for rotation history cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory rotation history cache. "+
		"Entries are not shared between instances.",
		zap.Error(err),
	)
	return f.createInMemory(), nil
}

func (f *HistoryCacheFactory) createInMemory() *InMemoryHistoryCache {
	return NewInMemoryHistoryCache(
		WithInMemoryTTL(f.redisConfig.HistoryTTL),
		WithInMemoryLogger(f.logger.Named("history_cache")),
	)
}
