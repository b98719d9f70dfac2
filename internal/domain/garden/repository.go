package garden

import (
	"context"

	"github.com/google/uuid"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
)

// PlotRepository persists plots with their cells
type PlotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Plot, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Plot, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, plot *Plot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RotationHistoryRepository persists rotation history records.
// Save returns shared.ErrAlreadyExists when the plot already has a record for that year.
type RotationHistoryRepository interface {
	FindByPlot(ctx context.Context, plotID uuid.UUID) ([]RotationHistoryRecord, error)
	FindByPlotAndYear(ctx context.Context, plotID uuid.UUID, year int) (*RotationHistoryRecord, error)
	Save(ctx context.Context, record *RotationHistoryRecord) error
	DeleteByPlot(ctx context.Context, plotID uuid.UUID) error
}
