package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/config"
)

// RedisHistoryCache implements HistoryCache using Redis
type RedisHistoryCache struct {
	client     *redis.Client
	ownsClient bool
	defaultTTL time.Duration
	logger     *zap.Logger
}

// RedisHistoryCacheOption configures a RedisHistoryCache
type RedisHistoryCacheOption func(*RedisHistoryCache)

// WithRedisLogger sets the logger
func WithRedisLogger(logger *zap.Logger) RedisHistoryCacheOption {
	return func(c *RedisHistoryCache) {
		c.logger = logger
	}
}

// WithRedisTTL sets the TTL used when Set is called with zero
func WithRedisTTL(ttl time.Duration) RedisHistoryCacheOption {
	return func(c *RedisHistoryCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// NewRedisHistoryCache connects to Redis and verifies the connection
func NewRedisHistoryCache(cfg config.RedisConfig, opts ...RedisHistoryCacheOption) (*RedisHistoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisHistoryCacheWithClient(client, opts...)
	c.ownsClient = true
	return c, nil
}

// NewRedisHistoryCacheWithClient wraps an existing client. The caller keeps
// ownership of the client.
func NewRedisHistoryCacheWithClient(client *redis.Client, opts ...RedisHistoryCacheOption) *RedisHistoryCache {
	c := &RedisHistoryCache{
		client:     client,
		defaultTTL: DefaultHistoryTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached history of a plot
func (c *RedisHistoryCache) Get(ctx context.Context, plotID uuid.UUID) ([]garden.RotationHistoryRecord, bool, error) {
	key := historyKey(plotID)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("Cache miss for rotation history", zap.String("plot_id", plotID.String()))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rotation history from cache: %w", err)
	}

	var records []garden.RotationHistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		c.logger.Warn("Dropping corrupted rotation history entry",
			zap.String("plot_id", plotID.String()),
			zap.Error(err))
		_ = c.client.Del(ctx, key)
		return nil, false, nil
	}

	c.logger.Debug("Cache hit for rotation history", zap.String("plot_id", plotID.String()))
	return records, true, nil
}

// Set stores the history of a plot
func (c *RedisHistoryCache) Set(ctx context.Context, plotID uuid.UUID, records []garden.RotationHistoryRecord, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if records == nil {
		records = []garden.RotationHistoryRecord{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal rotation history: %w", err)
	}
	if err := c.client.Set(ctx, historyKey(plotID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set rotation history in cache: %w", err)
	}
	return nil
}

// Delete removes the cached history of a plot
func (c *RedisHistoryCache) Delete(ctx context.Context, plotID uuid.UUID) error {
	if err := c.client.Del(ctx, historyKey(plotID)).Err(); err != nil {
		return fmt.Errorf("failed to delete rotation history from cache: %w", err)
	}
	return nil
}

// Backend returns "redis"
func (c *RedisHistoryCache) Backend() string {
	return "redis"
}

// Ping checks the Redis connection
func (c *RedisHistoryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the client when this cache created it
func (c *RedisHistoryCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
