package garden

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
)

const (
	// MaxPlotDimension bounds both rows and columns of a plot grid
	MaxPlotDimension = 20
	maxPlotNameLen   = 100
	maxPlotNotesLen  = 2000
)

// Cell is one grid position of a plot
type Cell struct {
	ID          uuid.UUID `json:"id"`
	Row         int       `json:"row"`
	Col         int       `json:"col"`
	VegetableID string    `json:"vegetable_id,omitempty"`
	PlantedYear int       `json:"planted_year,omitempty"`
}

// IsPlanted reports whether the cell holds a vegetable
func (c Cell) IsPlanted() bool {
	return c.VegetableID != ""
}

// Cleared returns a copy of the cell with no vegetable and no planted year
func (c Cell) Cleared() Cell {
	c.VegetableID = ""
	c.PlantedYear = 0
	return c
}

// Label returns a human readable cell position, e.g. "row 1, col 2" (1-based)
func (c Cell) Label() string {
	return fmt.Sprintf("row %d, col %d", c.Row+1, c.Col+1)
}

// Plot is a rectangular garden bed divided into cells
type Plot struct {
	shared.BaseAggregateRoot
	Name  string
	Notes string
	Rows  int
	Cols  int
	Cells []Cell
}

// NewPlot creates a plot with rows*cols empty cells in row-major order
func NewPlot(name string, rows, cols int) (*Plot, error) {
	name = strings.TrimSpace(name)
	if err := validatePlotName(name); err != nil {
		return nil, err
	}
	if rows < 1 || rows > MaxPlotDimension || cols < 1 || cols > MaxPlotDimension {
		return nil, shared.NewDomainError("INVALID_DIMENSIONS",
			fmt.Sprintf("Plot dimensions must be between 1 and %d", MaxPlotDimension))
	}

	plot := &Plot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Rows:              rows,
		Cols:              cols,
		Cells:             make([]Cell, 0, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			plot.Cells = append(plot.Cells, Cell{ID: uuid.New(), Row: r, Col: c})
		}
	}

	plot.AddDomainEvent(NewPlotCreatedEvent(plot))
	return plot, nil
}

func validatePlotName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Plot name cannot be empty")
	}
	if len(name) > maxPlotNameLen {
		return shared.NewDomainError("INVALID_NAME", "Plot name cannot exceed 100 characters")
	}
	return nil
}

// Rename updates the plot name and notes
func (p *Plot) Rename(name, notes string) error {
	name = strings.TrimSpace(name)
	if err := validatePlotName(name); err != nil {
		return err
	}
	if len(notes) > maxPlotNotesLen {
		return shared.NewDomainError("INVALID_NOTES", "Plot notes cannot exceed 2000 characters")
	}
	p.Name = name
	p.Notes = notes
	p.touch()
	return nil
}

// CellAt returns the cell at (row, col)
func (p *Plot) CellAt(row, col int) (Cell, bool) {
	i := p.cellIndex(row, col)
	if i < 0 {
		return Cell{}, false
	}
	return p.Cells[i], true
}

func (p *Plot) cellIndex(row, col int) int {
	for i := range p.Cells {
		if p.Cells[i].Row == row && p.Cells[i].Col == col {
			return i
		}
	}
	return -1
}

// PlantCell assigns a vegetable and planted year to the cell at (row, col)
func (p *Plot) PlantCell(row, col int, vegetableID string, year int) error {
	if strings.TrimSpace(vegetableID) == "" {
		return shared.NewDomainError("INVALID_VEGETABLE", "Vegetable ID cannot be empty")
	}
	if err := ValidateYear(year); err != nil {
		return err
	}
	i := p.cellIndex(row, col)
	if i < 0 {
		return shared.NewDomainError("CELL_NOT_FOUND", fmt.Sprintf("No cell at row %d, col %d", row, col))
	}
	p.Cells[i].VegetableID = vegetableID
	p.Cells[i].PlantedYear = year
	p.touch()
	p.AddDomainEvent(NewPlotCellsChangedEvent(p, 1))
	return nil
}

// ClearCell removes the vegetable from the cell at (row, col)
func (p *Plot) ClearCell(row, col int) error {
	i := p.cellIndex(row, col)
	if i < 0 {
		return shared.NewDomainError("CELL_NOT_FOUND", fmt.Sprintf("No cell at row %d, col %d", row, col))
	}
	if !p.Cells[i].IsPlanted() {
		return nil
	}
	p.Cells[i] = p.Cells[i].Cleared()
	p.touch()
	p.AddDomainEvent(NewPlotCellsChangedEvent(p, 1))
	return nil
}

// ReplaceCells swaps in a new cell collection, typically the output of
// an auto-fill. Cells are matched to the grid by position.
func (p *Plot) ReplaceCells(cells []Cell) error {
	if len(cells) != len(p.Cells) {
		return shared.NewDomainError("INVALID_CELLS",
			fmt.Sprintf("Expected %d cells, got %d", len(p.Cells), len(cells)))
	}
	changed := 0
	next := make([]Cell, len(p.Cells))
	copy(next, p.Cells)
	for _, c := range cells {
		i := p.cellIndex(c.Row, c.Col)
		if i < 0 {
			return shared.NewDomainError("CELL_NOT_FOUND", fmt.Sprintf("No cell at row %d, col %d", c.Row, c.Col))
		}
		if next[i].VegetableID != c.VegetableID || next[i].PlantedYear != c.PlantedYear {
			changed++
		}
		next[i].VegetableID = c.VegetableID
		next[i].PlantedYear = c.PlantedYear
	}
	p.Cells = next
	if changed > 0 {
		p.touch()
		p.AddDomainEvent(NewPlotCellsChangedEvent(p, changed))
	}
	return nil
}

// CloneCells returns a copy of the cell collection
func (p *Plot) CloneCells() []Cell {
	out := make([]Cell, len(p.Cells))
	copy(out, p.Cells)
	return out
}

// PlantedCells returns the cells holding a vegetable
func (p *Plot) PlantedCells() []Cell {
	out := make([]Cell, 0, len(p.Cells))
	for _, c := range p.Cells {
		if c.IsPlanted() {
			out = append(out, c)
		}
	}
	return out
}

// EmptyCells returns the cells without a vegetable, in grid order
func (p *Plot) EmptyCells() []Cell {
	out := make([]Cell, 0, len(p.Cells))
	for _, c := range p.Cells {
		if !c.IsPlanted() {
			out = append(out, c)
		}
	}
	return out
}

// withCells returns a shallow plot view over cells, sharing identity fields
func (p *Plot) withCells(cells []Cell) *Plot {
	return &Plot{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: p.BaseEntity, Version: p.Version},
		Name:              p.Name,
		Notes:             p.Notes,
		Rows:              p.Rows,
		Cols:              p.Cols,
		Cells:             cells,
	}
}

// touch stamps the modification time. The version is bumped by the
// repository when the change is persisted.
func (p *Plot) touch() {
	p.UpdatedAt = time.Now()
}

// ValidateYear rejects years outside a plausible gardening range
func ValidateYear(year int) error {
	if year < 1900 || year > 2200 {
		return shared.NewDomainError("INVALID_YEAR", "Year must be between 1900 and 2200")
	}
	return nil
}
