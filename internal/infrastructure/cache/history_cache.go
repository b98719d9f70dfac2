package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
)

// DefaultHistoryTTL is used when a cache is given a zero TTL
const DefaultHistoryTTL = 30 * time.Minute

// HistoryCache caches the full rotation history of a plot.
// Get reports a miss with found=false and a nil error.
type HistoryCache interface {
	Get(ctx context.Context, plotID uuid.UUID) (records []garden.RotationHistoryRecord, found bool, err error)
	Set(ctx context.Context, plotID uuid.UUID, records []garden.RotationHistoryRecord, ttl time.Duration) error
	Delete(ctx context.Context, plotID uuid.UUID) error
	// Backend names the implementation, e.g. "redis" or "memory"
	Backend() string
	Close() error
}

func historyKey(plotID uuid.UUID) string {
	return "rotation_history:" + plotID.String()
}
