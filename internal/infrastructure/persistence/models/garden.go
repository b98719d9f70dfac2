package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
)

// PlotModel is the persistence model for the Plot aggregate.
type PlotModel struct {
	AggregateModel
	Name  string          `gorm:"type:varchar(100);not null;index"`
	Notes string          `gorm:"type:text"`
	Rows  int             `gorm:"column:row_count;not null"`
	Cols  int             `gorm:"column:col_count;not null"`
	Cells []PlotCellModel `gorm:"foreignKey:PlotID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PlotModel) TableName() string {
	return "plots"
}

// PlotCellModel is one grid position of a plot.
type PlotCellModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlotID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_plot_cell_position,priority:1"`
	Row         int       `gorm:"column:row_index;not null;uniqueIndex:idx_plot_cell_position,priority:2"`
	Col         int       `gorm:"column:col_index;not null;uniqueIndex:idx_plot_cell_position,priority:3"`
	VegetableID string    `gorm:"type:varchar(64);not null;default:''"`
	PlantedYear int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PlotCellModel) TableName() string {
	return "plot_cells"
}

// ToDomain converts the persistence model to a domain Plot.
func (m *PlotModel) ToDomain() *garden.Plot {
	cells := make([]garden.Cell, len(m.Cells))
	for i, c := range m.Cells {
		cells[i] = garden.Cell{
			ID:          c.ID,
			Row:         c.Row,
			Col:         c.Col,
			VegetableID: c.VegetableID,
			PlantedYear: c.PlantedYear,
		}
	}
	return &garden.Plot{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Notes:             m.Notes,
		Rows:              m.Rows,
		Cols:              m.Cols,
		Cells:             cells,
	}
}

// PlotModelFromDomain creates a persistence model from a domain Plot.
func PlotModelFromDomain(p *garden.Plot) *PlotModel {
	m := &PlotModel{
		Name:  p.Name,
		Notes: p.Notes,
		Rows:  p.Rows,
		Cols:  p.Cols,
		Cells: make([]PlotCellModel, len(p.Cells)),
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	for i, c := range p.Cells {
		m.Cells[i] = PlotCellModel{
			ID:          c.ID,
			PlotID:      p.ID,
			Row:         c.Row,
			Col:         c.Col,
			VegetableID: c.VegetableID,
			PlantedYear: c.PlantedYear,
		}
	}
	return m
}

// RotationHistoryModel is the persistence model for a rotation history record.
// Vegetable ids are stored as a JSON array so the column is portable between
// Postgres and SQLite.
type RotationHistoryModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlotID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rotation_history_plot_year,priority:1"`
	Year             int       `gorm:"not null;uniqueIndex:idx_rotation_history_plot_year,priority:2"`
	RotationGroup    string    `gorm:"type:varchar(20);not null"`
	VegetableIDsJSON string    `gorm:"column:vegetable_ids;type:text;not null;default:'[]'"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RotationHistoryModel) TableName() string {
	return "rotation_history"
}

// ToDomain converts the persistence model to a domain record. A malformed
// vegetable list is reported as an error rather than silently dropped.
func (m *RotationHistoryModel) ToDomain() (*garden.RotationHistoryRecord, error) {
	ids := []string{}
	if m.VegetableIDsJSON != "" {
		if err := json.Unmarshal([]byte(m.VegetableIDsJSON), &ids); err != nil {
			return nil, err
		}
	}
	return &garden.RotationHistoryRecord{
		ID:            m.ID,
		PlotID:        m.PlotID,
		Year:          m.Year,
		RotationGroup: garden.RotationGroup(m.RotationGroup),
		VegetableIDs:  ids,
		CreatedAt:     m.CreatedAt,
	}, nil
}

// RotationHistoryModelFromDomain creates a persistence model from a domain record.
func RotationHistoryModelFromDomain(r *garden.RotationHistoryRecord) (*RotationHistoryModel, error) {
	ids := r.VegetableIDs
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return &RotationHistoryModel{
		ID:               r.ID,
		PlotID:           r.PlotID,
		Year:             r.Year,
		RotationGroup:    string(r.RotationGroup),
		VegetableIDsJSON: string(raw),
		CreatedAt:        r.CreatedAt,
	}, nil
}

// All returns every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{&PlotModel{}, &PlotCellModel{}, &RotationHistoryModel{}}
}
