package event

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/logger"
)

// HistoryInvalidator drops cached rotation history for a plot
type HistoryInvalidator interface {
	Invalidate(ctx context.Context, plotID uuid.UUID)
}

// HistoryCacheInvalidationHandler clears a plot's cached rotation history
// whenever its history changes or the plot is removed.
type HistoryCacheInvalidationHandler struct {
	invalidator HistoryInvalidator
}

// NewHistoryCacheInvalidationHandler creates the handler
func NewHistoryCacheInvalidationHandler(invalidator HistoryInvalidator) *HistoryCacheInvalidationHandler {
	return &HistoryCacheInvalidationHandler{invalidator: invalidator}
}

// EventTypes returns the events that touch rotation history
func (h *HistoryCacheInvalidationHandler) EventTypes() []string {
	return []string{garden.EventTypeRotationRecorded, garden.EventTypePlotDeleted}
}

// Handle invalidates the aggregate's cache entry
func (h *HistoryCacheInvalidationHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	h.invalidator.Invalidate(ctx, evt.AggregateID())
	return nil
}

// AuditLogHandler writes every domain event to the log
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates the handler
func NewAuditLogHandler(log *zap.Logger) *AuditLogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditLogHandler{logger: log}
}

// EventTypes is empty so the handler receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *AuditLogHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	logger.WithLogger(ctx, h.logger).Info("Domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

var (
	_ shared.EventHandler = (*HistoryCacheInvalidationHandler)(nil)
	_ shared.EventHandler = (*AuditLogHandler)(nil)
)
