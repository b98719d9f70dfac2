package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/persistence/models"
)

// GormPlotRepository implements garden.PlotRepository using GORM
type GormPlotRepository struct {
	db *gorm.DB
}

var _ garden.PlotRepository = (*GormPlotRepository)(nil)

// NewGormPlotRepository creates a new GormPlotRepository
func NewGormPlotRepository(db *gorm.DB) *GormPlotRepository {
	return &GormPlotRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormPlotRepository) WithTx(tx *gorm.DB) *GormPlotRepository {
	return &GormPlotRepository{db: tx}
}

func orderedCells(db *gorm.DB) *gorm.DB {
	return db.Order("row_index ASC, col_index ASC")
}

// FindByID finds a plot with its cells in row-major order
func (r *GormPlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*garden.Plot, error) {
	var model models.PlotModel
	if err := r.db.WithContext(ctx).
		Preload("Cells", orderedCells).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds plots matching the filter, cells included
func (r *GormPlotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]garden.Plot, error) {
	var rows []models.PlotModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PlotModel{}), filter)
	if err := query.Preload("Cells", orderedCells).Find(&rows).Error; err != nil {
		return nil, err
	}

	plots := make([]garden.Plot, len(rows))
	for i := range rows {
		plots[i] = *rows[i].ToDomain()
	}
	return plots, nil
}

// Count counts plots matching the filter, ignoring pagination
func (r *GormPlotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.PlotModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName reports whether a plot with the same name exists, ignoring case
func (r *GormPlotRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PlotModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates the plot or updates it with an optimistic version check.
// On success the plot's version reflects the stored row.
func (r *GormPlotRepository) Save(ctx context.Context, plot *garden.Plot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.PlotModel{}).Where("id = ?", plot.ID).Count(&existing).Error; err != nil {
			return err
		}

		model := models.PlotModelFromDomain(plot)
		if existing == 0 {
			return tx.Create(model).Error
		}

		currentVersion := plot.Version
		nextVersion := currentVersion + 1
		result := tx.Model(&models.PlotModel{}).
			Where("id = ? AND version = ?", plot.ID, currentVersion).
			Updates(map[string]any{
				"name":       model.Name,
				"notes":      model.Notes,
				"version":    nextVersion,
				"updated_at": model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.ErrConcurrencyConflict.Code, "The plot has been modified by another request")
		}

		for i := range model.Cells {
			if err := tx.Model(&models.PlotCellModel{}).
				Where("id = ? AND plot_id = ?", model.Cells[i].ID, plot.ID).
				Updates(map[string]any{
					"vegetable_id": model.Cells[i].VegetableID,
					"planted_year": model.Cells[i].PlantedYear,
				}).Error; err != nil {
				return err
			}
		}

		plot.Version = nextVersion
		return nil
	})
}

// Delete removes the plot and its cells
func (r *GormPlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plot_id = ?", id).Delete(&models.PlotCellModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PlotModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormPlotRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, PlotSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func (r *GormPlotRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(notes) LIKE ?", pattern, pattern)
	}
	return query
}
