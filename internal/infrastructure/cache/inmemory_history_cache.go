package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryHistoryCache implements HistoryCache in process memory.
// It is the fallback when Redis is disabled or unreachable.
type InMemoryHistoryCache struct {
	entries         sync.Map // map[string]*cacheEntry
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	logger          *zap.Logger
	stopCh          chan struct{}
	stopOnce        sync.Once

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	records   []garden.RotationHistoryRecord
	expiresAt time.Time
}

func (e *cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryHistoryCacheOption configures an InMemoryHistoryCache
type InMemoryHistoryCacheOption func(*InMemoryHistoryCache)

// WithInMemoryTTL sets the TTL used when Set is called with zero
func WithInMemoryTTL(ttl time.Duration) InMemoryHistoryCacheOption {
	return func(c *InMemoryHistoryCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithCleanupInterval sets how often expired entries are swept
func WithCleanupInterval(d time.Duration) InMemoryHistoryCacheOption {
	return func(c *InMemoryHistoryCache) {
		if d > 0 {
			c.cleanupInterval = d
		}
	}
}

// WithInMemoryLogger sets the logger
func WithInMemoryLogger(logger *zap.Logger) InMemoryHistoryCacheOption {
	return func(c *InMemoryHistoryCache) {
		c.logger = logger
	}
}

// NewInMemoryHistoryCache creates the cache and starts its cleanup goroutine.
// Call Close to stop it.
func NewInMemoryHistoryCache(opts ...InMemoryHistoryCacheOption) *InMemoryHistoryCache {
	c := &InMemoryHistoryCache{
		defaultTTL:      DefaultHistoryTTL,
		cleanupInterval: defaultCleanupInterval,
		logger:          zap.NewNop(),
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupExpired()
	return c
}

// Get returns a copy of the cached history of a plot
func (c *InMemoryHistoryCache) Get(_ context.Context, plotID uuid.UUID) ([]garden.RotationHistoryRecord, bool, error) {
	key := historyKey(plotID)
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired(time.Now()) {
			c.hits.Add(1)
			return cloneRecords(entry.records), true, nil
		}
		c.entries.Delete(key)
	}
	c.misses.Add(1)
	return nil, false, nil
}

// Set stores a copy of the history of a plot
func (c *InMemoryHistoryCache) Set(_ context.Context, plotID uuid.UUID, records []garden.RotationHistoryRecord, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.entries.Store(historyKey(plotID), &cacheEntry{
		records:   cloneRecords(records),
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete removes the cached history of a plot
func (c *InMemoryHistoryCache) Delete(_ context.Context, plotID uuid.UUID) error {
	c.entries.Delete(historyKey(plotID))
	return nil
}

// Backend returns "memory"
func (c *InMemoryHistoryCache) Backend() string {
	return "memory"
}

// Stats returns hit and miss counters
func (c *InMemoryHistoryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *InMemoryHistoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}

func (c *InMemoryHistoryCache) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			removed := 0
			c.entries.Range(func(key, value any) bool {
				if value.(*cacheEntry).isExpired(now) {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("Swept expired rotation history entries", zap.Int("removed", removed))
			}
		}
	}
}

func cloneRecords(records []garden.RotationHistoryRecord) []garden.RotationHistoryRecord {
	out := make([]garden.RotationHistoryRecord, len(records))
	for i, r := range records {
		out[i] = r
		if r.VegetableIDs != nil {
			out[i].VegetableIDs = make([]string, len(r.VegetableIDs))
			copy(out[i].VegetableIDs, r.VegetableIDs)
		}
	}
	return out
}
