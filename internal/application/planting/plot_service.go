package planting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/logger"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/telemetry"
)

// PlotService manages plots and their cells
type PlotService struct {
	plots     garden.PlotRepository
	history   garden.RotationHistoryRepository
	catalog   garden.VegetableCatalog
	engine    *garden.AutoFillEngine
	publisher shared.EventPublisher
	opts      options
}

// NewPlotService creates a new PlotService
func NewPlotService(
	plots garden.PlotRepository,
	history garden.RotationHistoryRepository,
	catalog garden.VegetableCatalog,
	engine *garden.AutoFillEngine,
	publisher shared.EventPublisher,
	opts ...Option,
) *PlotService {
	o := buildOptions(opts)
	if o.txScope == nil {
		o.txScope = NewNoOpTransactionScope(plots, history)
	}
	return &PlotService{
		plots:     plots,
		history:   history,
		catalog:   catalog,
		engine:    engine,
		publisher: publisher,
		opts:      o,
	}
}

// Create creates a plot with an empty grid
func (s *PlotService) Create(ctx context.Context, req CreatePlotRequest) (*PlotResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "plot", "create")
	defer span.End()

	exists, err := s.plots.ExistsByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Plot with this name already exists")
	}

	plot, err := garden.NewPlot(req.Name, req.Rows, req.Cols)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		if err := plot.Rename(plot.Name, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.plots.Save(ctx, plot); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPlotID, plot.ID.String())
	publishPlotEvents(ctx, s.publisher, s.opts.logger, plot)

	logger.WithLogger(ctx, s.opts.logger).Info("Plot created",
		zap.String("plot_id", plot.ID.String()),
		zap.Int("rows", plot.Rows),
		zap.Int("cols", plot.Cols),
	)
	return ToPlotResponse(plot, s.catalog), nil
}

// GetByID returns a plot with its grid
func (s *PlotService) GetByID(ctx context.Context, id uuid.UUID) (*PlotResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "plot", "get")
	defer span.End()

	plot, err := loadPlot(ctx, s.plots, id, span)
	if err != nil {
		return nil, err
	}
	return ToPlotResponse(plot, s.catalog), nil
}

// List returns a page of plots and the total count
func (s *PlotService) List(ctx context.Context, filter PlotListFilter) (shared.Paginated[PlotListResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.SortBy != "" {
		domainFilter.OrderBy = filter.SortBy
	}
	if filter.SortOrder != "" {
		domainFilter.OrderDir = filter.SortOrder
	}

	var page shared.Paginated[PlotListResponse]
	plots, err := s.plots.FindAll(ctx, domainFilter)
	if err != nil {
		return page, err
	}
	total, err := s.plots.Count(ctx, domainFilter)
	if err != nil {
		return page, err
	}

	out := make([]PlotListResponse, 0, len(plots))
	for i := range plots {
		out = append(out, ToPlotListResponse(&plots[i]))
	}
	return shared.NewPaginated(out, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update renames a plot or edits its notes
func (s *PlotService) Update(ctx context.Context, id uuid.UUID, req UpdatePlotRequest) (*PlotResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "plot", "update",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()))
	defer span.End()

	plot, err := loadPlot(ctx, s.plots, id, span)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != plot.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	name, notes := plot.Name, plot.Notes
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Notes != nil {
		notes = *req.Notes
	}

	if !strings.EqualFold(name, plot.Name) {
		exists, err := s.plots.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Plot with this name already exists")
		}
	}

	if err := plot.Rename(name, notes); err != nil {
		return nil, err
	}
	if err := s.plots.Save(ctx, plot); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishPlotEvents(ctx, s.publisher, s.opts.logger, plot)
	return ToPlotResponse(plot, s.catalog), nil
}

// Delete removes a plot and its rotation history
func (s *PlotService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "plot", "delete",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()))
	defer span.End()

	if _, err := loadPlot(ctx, s.plots, id, span); err != nil {
		return err
	}
	err := s.opts.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.HistoryRepo().DeleteByPlot(ctx, id); err != nil {
			return err
		}
		return repos.PlotRepo().Delete(ctx, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	publish(ctx, s.publisher, s.opts.logger, garden.NewPlotDeletedEvent(id))
	logger.WithLogger(ctx, s.opts.logger).Info("Plot deleted", zap.String("plot_id", id.String()))
	return nil
}

// PlantCell plants a catalog vegetable in a cell. The response carries the
// companion and rotation advice for the new planting; advice never blocks it.
func (s *PlotService) PlantCell(ctx context.Context, id uuid.UUID, row, col int, req PlantCellRequest) (*PlantCellResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "plot", "plant_cell",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()),
		telemetry.WithAttribute(telemetry.SpanAttrVegetableID, req.VegetableID),
		telemetry.WithAttribute(telemetry.SpanAttrRow, row),
		telemetry.WithAttribute(telemetry.SpanAttrCol, col),
	)
	defer span.End()

	if _, ok := s.catalog.GetVegetableByID(req.VegetableID); !ok {
		return nil, shared.NewDomainError("UNKNOWN_VEGETABLE", "Unknown vegetable: "+req.VegetableID)
	}
	year, err := s.opts.resolveYear(req.Year)
	if err != nil {
		return nil, err
	}

	plot, err := loadPlot(ctx, s.plots, id, span)
	if err != nil {
		return nil, err
	}
	target, ok := plot.CellAt(row, col)
	if !ok {
		return nil, cellNotFound(row, col)
	}

	history, err := s.history.FindByPlot(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	placement := s.engine.Companions().ValidatePlacement(req.VegetableID, target, plot)
	violation := s.engine.Advisor().CheckRotationViolation(req.VegetableID, id, year, history)
	if violation != nil {
		s.opts.metrics.RecordViolation(ctx, string(violation.Severity))
	}

	if err := plot.PlantCell(row, col, req.VegetableID, year); err != nil {
		return nil, err
	}
	if err := s.plots.Save(ctx, plot); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishPlotEvents(ctx, s.publisher, s.opts.logger, plot)

	return &PlantCellResponse{
		Plot:      ToPlotResponse(plot, s.catalog),
		Placement: placement,
		Rotation:  violation,
	}, nil
}

// ClearCell empties a cell
func (s *PlotService) ClearCell(ctx context.Context, id uuid.UUID, row, col int) (*PlotResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "plot", "clear_cell",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()))
	defer span.End()

	plot, err := loadPlot(ctx, s.plots, id, span)
	if err != nil {
		return nil, err
	}
	if err := plot.ClearCell(row, col); err != nil {
		return nil, err
	}
	if len(plot.GetDomainEvents()) == 0 {
		return ToPlotResponse(plot, s.catalog), nil
	}
	if err := s.plots.Save(ctx, plot); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishPlotEvents(ctx, s.publisher, s.opts.logger, plot)
	return ToPlotResponse(plot, s.catalog), nil
}

func cellNotFound(row, col int) error {
	return shared.NewDomainError("CELL_NOT_FOUND", fmt.Sprintf("No cell at row %d, col %d", row, col))
}
