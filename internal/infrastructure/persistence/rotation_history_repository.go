package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/persistence/models"
)

// GormRotationHistoryRepository implements garden.RotationHistoryRepository using GORM
type GormRotationHistoryRepository struct {
	db *gorm.DB
}

var _ garden.RotationHistoryRepository = (*GormRotationHistoryRepository)(nil)

// NewGormRotationHistoryRepository creates a new GormRotationHistoryRepository
func NewGormRotationHistoryRepository(db *gorm.DB) *GormRotationHistoryRepository {
	return &GormRotationHistoryRepository{db: db}
}

// FindByPlot returns all records of a plot, oldest year first
func (r *GormRotationHistoryRepository) FindByPlot(ctx context.Context, plotID uuid.UUID) ([]garden.RotationHistoryRecord, error) {
	var rows []models.RotationHistoryModel
	if err := r.db.WithContext(ctx).
		Where("plot_id = ?", plotID).
		Order("year ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]garden.RotationHistoryRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("decode rotation history %s: %w", rows[i].ID, err)
		}
		records = append(records, *rec)
	}
	return records, nil
}

// FindByPlotAndYear returns the record for one season
func (r *GormRotationHistoryRepository) FindByPlotAndYear(ctx context.Context, plotID uuid.UUID, year int) (*garden.RotationHistoryRecord, error) {
	var model models.RotationHistoryModel
	if err := r.db.WithContext(ctx).
		Where("plot_id = ? AND year = ?", plotID, year).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save inserts a new record. Records are immutable, so a second record for
// the same plot and year fails with shared.ErrAlreadyExists.
func (r *GormRotationHistoryRepository) Save(ctx context.Context, record *garden.RotationHistoryRecord) error {
	model, err := models.RotationHistoryModelFromDomain(record)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.RotationHistoryModel{}).
			Where("plot_id = ? AND year = ?", record.PlotID, record.Year).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return alreadyRecorded(record.Year)
		}

		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return alreadyRecorded(record.Year)
			}
			return err
		}
		return nil
	})
}

func alreadyRecorded(year int) error {
	return shared.NewDomainError(shared.ErrAlreadyExists.Code,
		fmt.Sprintf("Rotation history for %d is already recorded", year))
}

// DeleteByPlot removes every record of a plot
func (r *GormRotationHistoryRepository) DeleteByPlot(ctx context.Context, plotID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("plot_id = ?", plotID).
		Delete(&models.RotationHistoryModel{}).Error
}
