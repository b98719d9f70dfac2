//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/migration"
)

// newPostgresDB starts a throwaway PostgreSQL container and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("allotment_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	migrator, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up())

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	return db
}

func TestPostgres_PlotRepository(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewGormPlotRepository(db)
	ctx := context.Background()

	plot := newPlot(t, "Allotment 7", 3, 3)
	require.NoError(t, plot.PlantCell(2, 1, "leek", 2025))
	require.NoError(t, repo.Save(ctx, plot))

	exists, err := repo.ExistsByName(ctx, "allotment 7")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindByID(ctx, plot.ID)
	require.NoError(t, err)
	require.Len(t, found.Cells, 9)
	cell, ok := found.CellAt(2, 1)
	require.True(t, ok)
	assert.Equal(t, "leek", cell.VegetableID)

	stale, err := repo.FindByID(ctx, plot.ID)
	require.NoError(t, err)

	require.NoError(t, found.PlantCell(0, 0, "garlic", 2025))
	require.NoError(t, repo.Save(ctx, found))
	assert.Equal(t, 2, found.Version)

	require.NoError(t, stale.ClearCell(2, 1))
	assert.ErrorIs(t, repo.Save(ctx, stale), shared.ErrConcurrencyConflict)

	require.NoError(t, repo.Delete(ctx, plot.ID))
	_, err = repo.FindByID(ctx, plot.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPostgres_RotationHistoryRepository(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewGormRotationHistoryRepository(db)
	ctx := context.Background()
	plotID := uuid.New()

	require.NoError(t, repo.Save(ctx, newRecord(t, plotID, 2024, garden.RotationLegumes, "peas", "broad-beans")))
	require.NoError(t, repo.Save(ctx, newRecord(t, plotID, 2025, garden.RotationBrassicas, "kale")))

	err := repo.Save(ctx, newRecord(t, plotID, 2025, garden.RotationRoots, "carrot"))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	records, err := repo.FindByPlot(ctx, plotID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2024, records[0].Year)
	assert.Equal(t, []string{"peas", "broad-beans"}, records[0].VegetableIDs)
	assert.Equal(t, garden.RotationBrassicas, records[1].RotationGroup)

	require.NoError(t, repo.DeleteByPlot(ctx, plotID))
	records, err = repo.FindByPlot(ctx, plotID)
	require.NoError(t, err)
	assert.Empty(t, records)
}
