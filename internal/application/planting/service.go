// Package planting holds the use cases that drive the rotation and companion
// planting engine against stored plots and rotation history.
package planting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared/strategy"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/logger"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/telemetry"
)

// StrategyCatalog resolves and lists planting strategies
type StrategyCatalog interface {
	GetPlantingStrategy(name string) (strategy.PlantingScoreStrategy, error)
	ListPlantingStrategies() []strategy.PlantingScoreStrategy
	GetDefault(strategyType strategy.StrategyType) string
}

// Option configures a service
type Option func(*options)

type options struct {
	now              func() time.Time
	metrics          *telemetry.GardenMetrics
	logger           *zap.Logger
	difficultyFilter garden.DifficultyFilter
	txScope          TransactionScope
}

func defaultOptions() options {
	return options{
		now:              time.Now,
		logger:           zap.NewNop(),
		difficultyFilter: garden.DifficultyFilterAll,
	}
}

// WithClock sets the clock used to derive the current season
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithMetrics records engine activity on m
func WithMetrics(m *telemetry.GardenMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDefaultDifficultyFilter sets the auto-fill filter used when a request omits one
func WithDefaultDifficultyFilter(f garden.DifficultyFilter) Option {
	return func(o *options) {
		if f.IsValid() {
			o.difficultyFilter = f
		}
	}
}

// WithTransactionScope runs multi-repository plot writes inside scope
func WithTransactionScope(scope TransactionScope) Option {
	return func(o *options) {
		o.txScope = scope
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolveYear returns the current year for 0 and validates anything else
func (o options) resolveYear(year int) (int, error) {
	if year == 0 {
		return o.now().Year(), nil
	}
	if err := garden.ValidateYear(year); err != nil {
		return 0, err
	}
	return year, nil
}

// publishPlotEvents hands the plot's pending events to the publisher and
// clears them. Publish failures are logged; the change is already stored.
func publishPlotEvents(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, plot *garden.Plot) {
	events := plot.GetDomainEvents()
	plot.ClearDomainEvents()
	publish(ctx, publisher, log, events...)
}

func publish(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, events ...shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, log).Warn("Failed to publish domain events",
			zap.Int("count", len(events)), zap.Error(err))
	}
}

// loadPlot fetches a plot, recording a failure on span
func loadPlot(ctx context.Context, plots garden.PlotRepository, id uuid.UUID, span trace.Span) (*garden.Plot, error) {
	plot, err := plots.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return plot, nil
}
