package event

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	plots []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, plotID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plots = append(r.plots, plotID)
}

func TestHistoryCacheInvalidationHandler_ThroughBus(t *testing.T) {
	invalidator := &recordingInvalidator{}
	bus := NewInMemoryEventBus(nil)
	bus.Subscribe(NewHistoryCacheInvalidationHandler(invalidator))

	plotID := uuid.New()
	record := &garden.RotationHistoryRecord{ID: uuid.New(), PlotID: plotID, Year: 2024, RotationGroup: garden.RotationLegumes}

	require.NoError(t, bus.Publish(context.Background(),
		garden.NewRotationRecordedEvent(record),
		garden.NewPlotDeletedEvent(plotID),
		garden.NewPlotCellsChangedEvent(&garden.Plot{}, 1),
	))

	assert.Equal(t, []uuid.UUID{plotID, plotID}, invalidator.plots)
}

func TestAuditLogHandler_LogsEveryEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := NewInMemoryEventBus(nil)
	bus.Subscribe(NewAuditLogHandler(zap.New(core)))

	plotID := uuid.New()
	require.NoError(t, bus.Publish(context.Background(),
		garden.NewPlotDeletedEvent(plotID),
	))

	entries := logs.FilterMessage("Domain event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, garden.EventTypePlotDeleted, fields["event_type"])
	assert.Equal(t, plotID.String(), fields["aggregate_id"])
	assert.Equal(t, garden.AggregateTypePlot, fields["aggregate_type"])
}
