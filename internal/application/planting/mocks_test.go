package planting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/reference"
	infraStrategy "github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/strategy"
)

// MockPlotRepository is a mock implementation of garden.PlotRepository
type MockPlotRepository struct {
	mock.Mock
}

func (m *MockPlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*garden.Plot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*garden.Plot), args.Error(1)
}

func (m *MockPlotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]garden.Plot, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]garden.Plot), args.Error(1)
}

func (m *MockPlotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlotRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlotRepository) Save(ctx context.Context, plot *garden.Plot) error {
	args := m.Called(ctx, plot)
	return args.Error(0)
}

func (m *MockPlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHistoryRepository is a mock implementation of garden.RotationHistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) FindByPlot(ctx context.Context, plotID uuid.UUID) ([]garden.RotationHistoryRecord, error) {
	args := m.Called(ctx, plotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]garden.RotationHistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) FindByPlotAndYear(ctx context.Context, plotID uuid.UUID, year int) (*garden.RotationHistoryRecord, error) {
	args := m.Called(ctx, plotID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*garden.RotationHistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) Save(ctx context.Context, record *garden.RotationHistoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) DeleteByPlot(ctx context.Context, plotID uuid.UUID) error {
	args := m.Called(ctx, plotID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// firstPicker always takes the best candidate
type firstPicker struct{}

func (firstPicker) IntN(int) int { return 0 }

var testNow = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type testDeps struct {
	plots     *MockPlotRepository
	history   *MockHistoryRepository
	publisher *MockEventPublisher
	catalog   *reference.Catalog
	registry  *infraStrategy.StrategyRegistry
	engine    *garden.AutoFillEngine
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	catalog, err := reference.LoadEmbedded()
	require.NoError(t, err)
	registry, err := infraStrategy.NewRegistryWithDefaults("balanced")
	require.NoError(t, err)
	return &testDeps{
		plots:     new(MockPlotRepository),
		history:   new(MockHistoryRepository),
		publisher: new(MockEventPublisher),
		catalog:   catalog,
		registry:  registry,
		engine: garden.NewAutoFillEngine(catalog,
			garden.WithPicker(firstPicker{}),
			garden.WithStrategyResolver(registry),
		),
	}
}

func (d *testDeps) plotService(opts ...Option) *PlotService {
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return NewPlotService(d.plots, d.history, d.catalog, d.engine, d.publisher, opts...)
}

// countingScope runs fn against fixed repositories and counts executions
type countingScope struct {
	*NoOpTransactionScope
	executions int
}

func (s *countingScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	s.executions++
	return s.NoOpTransactionScope.Execute(ctx, fn)
}

func (d *testDeps) advisorService(opts ...Option) *AdvisorService {
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return NewAdvisorService(d.plots, d.history, d.catalog, d.engine, d.registry, d.publisher, opts...)
}

// newStoredPlot builds a plot as a repository would return it
func newStoredPlot(t *testing.T, rows, cols int, planted map[[2]int]string) *garden.Plot {
	t.Helper()
	p, err := garden.NewPlot("Bed A", rows, cols)
	require.NoError(t, err)
	for pos, veg := range planted {
		require.NoError(t, p.PlantCell(pos[0], pos[1], veg, 2024))
	}
	p.ClearDomainEvents()
	return p
}

func historyRecord(plotID uuid.UUID, year int, group garden.RotationGroup) garden.RotationHistoryRecord {
	return garden.RotationHistoryRecord{ID: uuid.New(), PlotID: plotID, Year: year, RotationGroup: group}
}
