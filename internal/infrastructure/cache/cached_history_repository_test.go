package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
)

type mockHistoryRepository struct {
	mock.Mock
}

func (m *mockHistoryRepository) FindByPlot(ctx context.Context, plotID uuid.UUID) ([]garden.RotationHistoryRecord, error) {
	args := m.Called(ctx, plotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]garden.RotationHistoryRecord), args.Error(1)
}

func (m *mockHistoryRepository) FindByPlotAndYear(ctx context.Context, plotID uuid.UUID, year int) (*garden.RotationHistoryRecord, error) {
	args := m.Called(ctx, plotID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*garden.RotationHistoryRecord), args.Error(1)
}

func (m *mockHistoryRepository) Save(ctx context.Context, record *garden.RotationHistoryRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockHistoryRepository) DeleteByPlot(ctx context.Context, plotID uuid.UUID) error {
	return m.Called(ctx, plotID).Error(0)
}

// failingCache fails every operation
type failingCache struct{}

func (failingCache) Get(context.Context, uuid.UUID) ([]garden.RotationHistoryRecord, bool, error) {
	return nil, false, errors.New("cache down")
}
func (failingCache) Set(context.Context, uuid.UUID, []garden.RotationHistoryRecord, time.Duration) error {
	return errors.New("cache down")
}
func (failingCache) Delete(context.Context, uuid.UUID) error { return errors.New("cache down") }
func (failingCache) Backend() string                         { return "failing" }
func (failingCache) Close() error                            { return nil }

func TestCachedHistoryRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	plotID := uuid.New()
	inner := new(mockHistoryRepository)
	inner.On("FindByPlot", ctx, plotID).Return(sampleHistory(plotID), nil).Once()

	c := NewInMemoryHistoryCache()
	defer c.Close()
	repo := NewCachedHistoryRepository(inner, c, time.Minute, nil)

	first, err := repo.FindByPlot(ctx, plotID)
	require.NoError(t, err)
	second, err := repo.FindByPlot(ctx, plotID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	inner.AssertNumberOfCalls(t, "FindByPlot", 1)
}

func TestCachedHistoryRepository_SaveInvalidates(t *testing.T) {
	ctx := context.Background()
	plotID := uuid.New()
	history := sampleHistory(plotID)
	record := &garden.RotationHistoryRecord{ID: uuid.New(), PlotID: plotID, Year: 2025, RotationGroup: garden.RotationRoots}

	inner := new(mockHistoryRepository)
	inner.On("FindByPlot", ctx, plotID).Return(history, nil).Once()
	inner.On("Save", ctx, record).Return(nil).Once()
	inner.On("FindByPlot", ctx, plotID).Return(append(history, *record), nil).Once()

	c := NewInMemoryHistoryCache()
	defer c.Close()
	repo := NewCachedHistoryRepository(inner, c, time.Minute, nil)

	before, err := repo.FindByPlot(ctx, plotID)
	require.NoError(t, err)
	assert.Len(t, before, 2)

	require.NoError(t, repo.Save(ctx, record))

	after, err := repo.FindByPlot(ctx, plotID)
	require.NoError(t, err)
	assert.Len(t, after, 3)
	inner.AssertExpectations(t)
}

func TestCachedHistoryRepository_SaveErrorKeepsCache(t *testing.T) {
	ctx := context.Background()
	plotID := uuid.New()
	record := &garden.RotationHistoryRecord{ID: uuid.New(), PlotID: plotID, Year: 2024, RotationGroup: garden.RotationRoots}

	inner := new(mockHistoryRepository)
	inner.On("Save", ctx, record).Return(shared.ErrAlreadyExists)

	c := NewInMemoryHistoryCache()
	defer c.Close()
	require.NoError(t, c.Set(ctx, plotID, sampleHistory(plotID), time.Minute))
	repo := NewCachedHistoryRepository(inner, c, time.Minute, nil)

	assert.ErrorIs(t, repo.Save(ctx, record), shared.ErrAlreadyExists)
	_, found, _ := c.Get(ctx, plotID)
	assert.True(t, found)
}

func TestCachedHistoryRepository_DeleteByPlotInvalidates(t *testing.T) {
	ctx := context.Background()
	plotID := uuid.New()

	inner := new(mockHistoryRepository)
	inner.On("DeleteByPlot", ctx, plotID).Return(nil)

	c := NewInMemoryHistoryCache()
	defer c.Close()
	require.NoError(t, c.Set(ctx, plotID, sampleHistory(plotID), time.Minute))
	repo := NewCachedHistoryRepository(inner, c, time.Minute, nil)

	require.NoError(t, repo.DeleteByPlot(ctx, plotID))
	_, found, _ := c.Get(ctx, plotID)
	assert.False(t, found)
}

func TestCachedHistoryRepository_CacheFailuresAreTolerated(t *testing.T) {
	ctx := context.Background()
	plotID := uuid.New()
	record := &garden.RotationHistoryRecord{ID: uuid.New(), PlotID: plotID, Year: 2024, RotationGroup: garden.RotationRoots}

	inner := new(mockHistoryRepository)
	inner.On("FindByPlot", ctx, plotID).Return(sampleHistory(plotID), nil)
	inner.On("Save", ctx, record).Return(nil)
	inner.On("FindByPlotAndYear", ctx, plotID, 2024).Return(record, nil)

	repo := NewCachedHistoryRepository(inner, failingCache{}, time.Minute, nil)

	records, err := repo.FindByPlot(ctx, plotID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.NoError(t, repo.Save(ctx, record))

	found, err := repo.FindByPlotAndYear(ctx, plotID, 2024)
	require.NoError(t, err)
	assert.Equal(t, record, found)
}

func TestCachedHistoryRepository_InnerErrorNotCached(t *testing.T) {
	ctx := context.Background()
	plotID := uuid.New()

	inner := new(mockHistoryRepository)
	inner.On("FindByPlot", ctx, plotID).Return(nil, errors.New("db down"))

	c := NewInMemoryHistoryCache()
	defer c.Close()
	repo := NewCachedHistoryRepository(inner, c, time.Minute, nil)

	_, err := repo.FindByPlot(ctx, plotID)
	assert.Error(t, err)
	_, found, _ := c.Get(ctx, plotID)
	assert.False(t, found)
}
