package garden

import (
	"github.com/google/uuid"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
)

// AggregateTypePlot is the aggregate type for plot events
const AggregateTypePlot = "Plot"

// Event types
const (
	EventTypePlotCreated      = "PlotCreated"
	EventTypePlotCellsChanged = "PlotCellsChanged"
	EventTypePlotDeleted      = "PlotDeleted"
	EventTypeRotationRecorded = "RotationRecorded"
)

// PlotCreatedEvent is raised when a plot is created
type PlotCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

// NewPlotCreatedEvent creates a PlotCreatedEvent
func NewPlotCreatedEvent(p *Plot) *PlotCreatedEvent {
	return &PlotCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlotCreated, AggregateTypePlot, p.ID),
		Name:            p.Name,
		Rows:            p.Rows,
		Cols:            p.Cols,
	}
}

// PlotCellsChangedEvent is raised when cells are planted or cleared
type PlotCellsChangedEvent struct {
	shared.BaseDomainEvent
	ChangedCells int `json:"changed_cells"`
}

// NewPlotCellsChangedEvent creates a PlotCellsChangedEvent
func NewPlotCellsChangedEvent(p *Plot, changed int) *PlotCellsChangedEvent {
	return &PlotCellsChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlotCellsChanged, AggregateTypePlot, p.ID),
		ChangedCells:    changed,
	}
}

// PlotDeletedEvent is raised after a plot is removed
type PlotDeletedEvent struct {
	shared.BaseDomainEvent
}

// NewPlotDeletedEvent creates a PlotDeletedEvent
func NewPlotDeletedEvent(plotID uuid.UUID) *PlotDeletedEvent {
	return &PlotDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlotDeleted, AggregateTypePlot, plotID),
	}
}

// RotationRecordedEvent is raised when a history record is stored for a plot
type RotationRecordedEvent struct {
	shared.BaseDomainEvent
	Year          int           `json:"year"`
	RotationGroup RotationGroup `json:"rotation_group"`
}

// NewRotationRecordedEvent creates a RotationRecordedEvent
func NewRotationRecordedEvent(rec *RotationHistoryRecord) *RotationRecordedEvent {
	return &RotationRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRotationRecorded, AggregateTypePlot, rec.PlotID),
		Year:            rec.Year,
		RotationGroup:   rec.RotationGroup,
	}
}
