package planting

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared/strategy"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/logger"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/telemetry"
)

// AdvisorService answers rotation and companion questions about stored plots
// and runs auto-fill against them
type AdvisorService struct {
	plots      garden.PlotRepository
	history    garden.RotationHistoryRepository
	catalog    garden.VegetableCatalog
	engine     *garden.AutoFillEngine
	strategies StrategyCatalog
	publisher  shared.EventPublisher
	opts       options
}

// NewAdvisorService creates a new AdvisorService
func NewAdvisorService(
	plots garden.PlotRepository,
	history garden.RotationHistoryRepository,
	catalog garden.VegetableCatalog,
	engine *garden.AutoFillEngine,
	strategies StrategyCatalog,
	publisher shared.EventPublisher,
	opts ...Option,
) *AdvisorService {
	return &AdvisorService{
		plots:      plots,
		history:    history,
		catalog:    catalog,
		engine:     engine,
		strategies: strategies,
		publisher:  publisher,
		opts:       buildOptions(opts),
	}
}

// loadPlotWithHistory fetches a plot and every history record for it
func (s *AdvisorService) loadPlotWithHistory(ctx context.Context, id uuid.UUID) (*garden.Plot, []garden.RotationHistoryRecord, error) {
	plot, err := s.plots.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.history.FindByPlot(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return plot, history, nil
}

// Placement rates placing a vegetable in a cell against its planted neighbours
func (s *AdvisorService) Placement(ctx context.Context, id uuid.UUID, row, col int, vegetableID string) (*PlacementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisor", "placement",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()),
		telemetry.WithAttribute(telemetry.SpanAttrVegetableID, vegetableID),
	)
	defer span.End()

	if vegetableID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Vegetable ID is required")
	}
	plot, err := loadPlot(ctx, s.plots, id, span)
	if err != nil {
		return nil, err
	}
	target, ok := plot.CellAt(row, col)
	if !ok {
		return nil, cellNotFound(row, col)
	}

	companions := s.engine.Companions()
	return &PlacementResponse{
		VegetableID:    vegetableID,
		Row:            row,
		Col:            col,
		Placement:      companions.ValidatePlacement(vegetableID, target, plot),
		CompanionScore: companions.CompanionScore(vegetableID, target, plot),
	}, nil
}

// SuggestedRotation returns the group to plant in year and the catalog
// vegetables belonging to it
func (s *AdvisorService) SuggestedRotation(ctx context.Context, id uuid.UUID, year int) (*RotationSuggestionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisor", "suggested_rotation",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()))
	defer span.End()

	year, err := s.opts.resolveYear(year)
	if err != nil {
		return nil, err
	}
	plot, history, err := s.loadPlotWithHistory(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	group := s.engine.Advisor().SuggestedRotation(plot.ID, year, history)
	telemetry.SetAttributes(span, telemetry.SpanAttrRotationGroup, string(group))

	vegetables := make([]VegetableResponse, 0)
	all := s.catalog.ListAllVegetables()
	for i := range all {
		if g, ok := garden.CategoryToGroup(all[i].Category); ok && g == group {
			vegetables = append(vegetables, ToVegetableResponse(&all[i]))
		}
	}

	return &RotationSuggestionResponse{
		PlotID:         plot.ID,
		Year:           year,
		SuggestedGroup: group,
		DisplayName:    displayName(string(group)),
		Vegetables:     vegetables,
	}, nil
}

// CheckRotation rates planting a vegetable in the plot in year
func (s *AdvisorService) CheckRotation(ctx context.Context, id uuid.UUID, vegetableID string, year int) (*RotationCheckResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisor", "check_rotation",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()),
		telemetry.WithAttribute(telemetry.SpanAttrVegetableID, vegetableID),
	)
	defer span.End()

	if vegetableID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Vegetable ID is required")
	}
	year, err := s.opts.resolveYear(year)
	if err != nil {
		return nil, err
	}
	plot, history, err := s.loadPlotWithHistory(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	advisor := s.engine.Advisor()
	resp := &RotationCheckResponse{
		PlotID:        plot.ID,
		VegetableID:   vegetableID,
		Year:          year,
		Violation:     advisor.CheckRotationViolation(vegetableID, plot.ID, year, history),
		RotationScore: advisor.RotationScore(vegetableID, plot.ID, year, history),
	}
	if group, ok := advisor.RotationGroupOf(vegetableID); ok {
		resp.RotationGroup = string(group)
	}
	if resp.Violation != nil {
		s.opts.metrics.RecordViolation(ctx, string(resp.Violation.Severity))
	}
	return resp, nil
}

// RotationHistory returns the plot's records newest first. A positive limit truncates.
func (s *AdvisorService) RotationHistory(ctx context.Context, id uuid.UUID, limit int) ([]garden.RotationHistoryRecord, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisor", "rotation_history",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()))
	defer span.End()

	if _, err := loadPlot(ctx, s.plots, id, span); err != nil {
		return nil, err
	}
	history, err := s.history.FindByPlot(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return s.engine.Advisor().RotationSummary(id, history, limit), nil
}

// RecordHistory stores a past season entered by hand
func (s *AdvisorService) RecordHistory(ctx context.Context, id uuid.UUID, req RecordHistoryRequest) (*garden.RotationHistoryRecord, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisor", "record_history",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()),
		telemetry.WithAttribute(telemetry.SpanAttrYear, req.Year),
	)
	defer span.End()

	if _, err := loadPlot(ctx, s.plots, id, span); err != nil {
		return nil, err
	}
	rec, err := garden.NewRotationHistoryRecord(id, req.Year, garden.RotationGroup(req.RotationGroup), req.VegetableIDs)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = s.opts.now()
	if err := s.saveRecord(ctx, rec); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return rec, nil
}

// CloseSeason records the plot's dominant group for year as history
func (s *AdvisorService) CloseSeason(ctx context.Context, id uuid.UUID, year int) (*garden.RotationHistoryRecord, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisor", "close_season",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()))
	defer span.End()

	year, err := s.opts.resolveYear(year)
	if err != nil {
		return nil, err
	}
	plot, err := loadPlot(ctx, s.plots, id, span)
	if err != nil {
		return nil, err
	}

	rec := s.engine.Advisor().BuildRotationHistoryEntry(plot, year)
	if rec == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Nothing but permanent crops is planted; no season to record")
	}
	rec.CreatedAt = s.opts.now()
	if err := s.saveRecord(ctx, rec); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.opts.metrics.RecordSeasonClosed(ctx, string(rec.RotationGroup))
	return rec, nil
}

func (s *AdvisorService) saveRecord(ctx context.Context, rec *garden.RotationHistoryRecord) error {
	if err := s.history.Save(ctx, rec); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return shared.NewDomainError("ALREADY_EXISTS", "A rotation record already exists for this plot and year")
		}
		return err
	}
	publish(ctx, s.publisher, s.opts.logger, garden.NewRotationRecordedEvent(rec))
	logger.WithLogger(ctx, s.opts.logger).Info("Rotation recorded",
		zap.String("plot_id", rec.PlotID.String()),
		zap.Int("year", rec.Year),
		zap.String("rotation_group", string(rec.RotationGroup)),
	)
	return nil
}

// RotationStats reports how well the plot follows the suggestion for year
func (s *AdvisorService) RotationStats(ctx context.Context, id uuid.UUID, year int) (*RotationStatsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisor", "rotation_stats",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()))
	defer span.End()

	year, err := s.opts.resolveYear(year)
	if err != nil {
		return nil, err
	}
	plot, history, err := s.loadPlotWithHistory(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &RotationStatsResponse{
		PlotID:        plot.ID,
		Year:          year,
		RotationStats: s.engine.PlotRotationStats(plot, history, year),
	}, nil
}

// DominantGroup returns the plot's most planted non-permanent group
func (s *AdvisorService) DominantGroup(ctx context.Context, id uuid.UUID) (*DominantGroupResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisor", "dominant_group",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()))
	defer span.End()

	plot, err := loadPlot(ctx, s.plots, id, span)
	if err != nil {
		return nil, err
	}
	group, found := s.engine.Advisor().DominantRotationGroup(plot)
	return &DominantGroupResponse{PlotID: plot.ID, Group: group, Found: found}, nil
}

// autoFillOptions resolves request fields against the configured defaults
func (s *AdvisorService) autoFillOptions(req AutoFillRequest) (garden.AutoFillOptions, error) {
	opts := garden.DefaultAutoFillOptions()
	opts.DifficultyFilter = s.opts.difficultyFilter

	opts.Strategy = req.Strategy
	if opts.Strategy == "" {
		opts.Strategy = s.strategies.GetDefault(strategy.StrategyTypePlanting)
	}
	if _, err := s.strategies.GetPlantingStrategy(opts.Strategy); err != nil {
		return opts, shared.NewDomainError("INVALID_STRATEGY", "Unknown auto-fill strategy: "+opts.Strategy)
	}
	if req.DifficultyFilter != "" {
		opts.DifficultyFilter = garden.DifficultyFilter(req.DifficultyFilter)
	}
	if req.RespectExisting != nil {
		opts.RespectExisting = *req.RespectExisting
	}
	return opts, opts.Validate()
}

// autoFillLabels tags auto-fill CPU samples by strategy and plot dimensions
func autoFillLabels(operation string, opts garden.AutoFillOptions, plot *garden.Plot) map[string]string {
	return telemetry.OperationLabels(operation, map[string]string{
		telemetry.ProfilingLabelStrategy: opts.Strategy,
		telemetry.ProfilingLabelPlotSize: strconv.Itoa(plot.Rows) + "x" + strconv.Itoa(plot.Cols),
	})
}

// PreviewAutoFill lists what an auto-fill would plant without saving
func (s *AdvisorService) PreviewAutoFill(ctx context.Context, id uuid.UUID, req AutoFillRequest) (*AutoFillPreviewResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisor", "preview_autofill",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()))
	defer span.End()
	start := time.Now()

	opts, err := s.autoFillOptions(req)
	if err != nil {
		return nil, err
	}
	year, err := s.opts.resolveYear(req.Year)
	if err != nil {
		return nil, err
	}
	plot, history, err := s.loadPlotWithHistory(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var entries []garden.AutoFillPreviewEntry
	telemetry.WithProfilingLabels(ctx, autoFillLabels("preview_autofill", opts, plot), func(context.Context) {
		entries = s.engine.PreviewAutoFill(plot, opts, history, year)
	})
	telemetry.SetAttributes(span,
		telemetry.SpanAttrStrategy, opts.Strategy,
		telemetry.SpanAttrCellsFilled, len(entries),
	)
	s.opts.metrics.RecordAutoFill(ctx, opts.Strategy, len(entries), true, time.Since(start))

	return &AutoFillPreviewResponse{
		PlotID:   plot.ID,
		Year:     year,
		Strategy: opts.Strategy,
		Entries:  entries,
	}, nil
}

// AutoFill plants the plot's empty cells and saves the result
func (s *AdvisorService) AutoFill(ctx context.Context, id uuid.UUID, req AutoFillRequest) (*AutoFillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advisor", "autofill",
		telemetry.WithAttribute(telemetry.SpanAttrPlotID, id.String()))
	defer span.End()
	start := time.Now()

	opts, err := s.autoFillOptions(req)
	if err != nil {
		return nil, err
	}
	year, err := s.opts.resolveYear(req.Year)
	if err != nil {
		return nil, err
	}
	plot, history, err := s.loadPlotWithHistory(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	before := len(plot.PlantedCells())
	var cells []garden.Cell
	telemetry.WithProfilingLabels(ctx, autoFillLabels("autofill", opts, plot), func(context.Context) {
		cells = s.engine.AutoFillPlot(plot, opts, history, year)
	})
	if err := plot.ReplaceCells(cells); err != nil {
		return nil, err
	}
	filled := countFilled(plot, before, opts.RespectExisting)

	if len(plot.GetDomainEvents()) > 0 {
		if err := s.plots.Save(ctx, plot); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		publishPlotEvents(ctx, s.publisher, s.opts.logger, plot)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrStrategy, opts.Strategy,
		telemetry.SpanAttrCellsFilled, filled,
	)
	s.opts.metrics.RecordAutoFill(ctx, opts.Strategy, filled, false, time.Since(start))
	logger.WithLogger(ctx, s.opts.logger).Info("Plot auto-filled",
		zap.String("plot_id", plot.ID.String()),
		zap.String("strategy", opts.Strategy),
		zap.Int("year", year),
		zap.Int("filled", filled),
	)

	return &AutoFillResponse{
		Plot:        ToPlotResponse(plot, s.catalog),
		Year:        year,
		Strategy:    opts.Strategy,
		FilledCount: filled,
	}, nil
}

// countFilled is the number of cells auto-fill planted. Without
// RespectExisting previously planted cells were cleared, so every planted
// cell afterwards is new.
func countFilled(plot *garden.Plot, plantedBefore int, respectExisting bool) int {
	after := len(plot.PlantedCells())
	if !respectExisting {
		return after
	}
	return after - plantedBefore
}
