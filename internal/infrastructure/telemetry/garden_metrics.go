package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// GardenMeterName is the instrumentation name of the planting metrics
const GardenMeterName = "allotment-planner/planting"

// GardenMetrics records planting engine activity.
type GardenMetrics struct {
	autofillRuns     *Counter
	cellsFilled      *Counter
	autofillDuration *Histogram
	violations       *Counter
	seasonsClosed    *Counter
}

// NewGardenMetrics registers the planting instruments on meter
func NewGardenMetrics(meter metric.Meter) (*GardenMetrics, error) {
	var (
		m   GardenMetrics
		err error
	)
	if m.autofillRuns, err = NewCounter(meter, "garden_autofill_runs_total",
		"Number of auto-fill runs", "{run}"); err != nil {
		return nil, err
	}
	if m.cellsFilled, err = NewCounter(meter, "garden_autofill_cells_filled_total",
		"Number of cells planted by auto-fill", "{cell}"); err != nil {
		return nil, err
	}
	if m.autofillDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "garden_autofill_duration_seconds",
		Description: "Time spent computing an auto-fill",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.violations, err = NewCounter(meter, "garden_rotation_violations_total",
		"Number of rotation violations detected", "{violation}"); err != nil {
		return nil, err
	}
	if m.seasonsClosed, err = NewCounter(meter, "garden_seasons_closed_total",
		"Number of seasons recorded into rotation history", "{season}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordAutoFill records one auto-fill run. preview distinguishes dry runs
// from applied fills.
func (m *GardenMetrics) RecordAutoFill(ctx context.Context, strategy string, filled int, preview bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "applied"
	if preview {
		outcome = "preview"
	}
	m.autofillRuns.Inc(ctx, AttrStrategy.String(strategy), AttrOutcome.String(outcome))
	m.autofillDuration.RecordDuration(ctx, elapsed, AttrStrategy.String(strategy))
	if !preview && filled > 0 {
		m.cellsFilled.Add(ctx, int64(filled), AttrStrategy.String(strategy))
	}
}

// RecordViolation counts a detected rotation violation
func (m *GardenMetrics) RecordViolation(ctx context.Context, severity string) {
	if m == nil {
		return
	}
	m.violations.Inc(ctx, AttrSeverity.String(severity))
}

// RecordSeasonClosed counts a season written to history
func (m *GardenMetrics) RecordSeasonClosed(ctx context.Context, group string) {
	if m == nil {
		return
	}
	m.seasonsClosed.Inc(ctx, AttrRotationGroup.String(group))
}
