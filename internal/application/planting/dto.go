package planting

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared/strategy"
)

// CreatePlotRequest represents a request to create a plot
type CreatePlotRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Rows  int    `json:"rows" binding:"required,min=1,max=20"`
	Cols  int    `json:"cols" binding:"required,min=1,max=20"`
	Notes string `json:"notes" binding:"max=2000"`
}

// UpdatePlotRequest represents a request to rename a plot or edit its notes.
// Version, when given, must match the stored version.
type UpdatePlotRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Notes   *string `json:"notes" binding:"omitempty,max=2000"`
	Version *int    `json:"version" binding:"omitempty,min=1"`
}

// PlotListFilter holds list query parameters
type PlotListFilter struct {
	Search    string `form:"search"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// PlantCellRequest plants a vegetable in a cell. Year defaults to the current year.
type PlantCellRequest struct {
	VegetableID string `json:"vegetable_id" binding:"required"`
	Year        int    `json:"year" binding:"omitempty,min=1900,max=2200"`
}

// RecordHistoryRequest records a past season by hand
type RecordHistoryRequest struct {
	Year          int      `json:"year" binding:"required,min=1900,max=2200"`
	RotationGroup string   `json:"rotation_group" binding:"required,rotation_group"`
	VegetableIDs  []string `json:"vegetable_ids"`
}

// AutoFillRequest configures an auto-fill run. Empty fields use the
// configured defaults; RespectExisting defaults to true.
type AutoFillRequest struct {
	Strategy         string `json:"strategy"`
	DifficultyFilter string `json:"difficulty_filter" binding:"omitempty,difficulty_filter"`
	RespectExisting  *bool  `json:"respect_existing"`
	Year             int    `json:"year" binding:"omitempty,min=1900,max=2200"`
}

// VegetableFilter filters the reference catalog
type VegetableFilter struct {
	Category      string `form:"category"`
	Difficulty    string `form:"difficulty"`
	RotationGroup string `form:"rotation_group"`
	Query         string `form:"q"`
}

// CellResponse represents a plot cell
type CellResponse struct {
	ID            uuid.UUID `json:"id"`
	Row           int       `json:"row"`
	Col           int       `json:"col"`
	VegetableID   string    `json:"vegetable_id,omitempty"`
	VegetableName string    `json:"vegetable_name,omitempty"`
	RotationGroup string    `json:"rotation_group,omitempty"`
	PlantedYear   int       `json:"planted_year,omitempty"`
}

// PlotResponse represents a plot with its grid
type PlotResponse struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Notes        string         `json:"notes"`
	Rows         int            `json:"rows"`
	Cols         int            `json:"cols"`
	PlantedCount int            `json:"planted_count"`
	Cells        []CellResponse `json:"cells"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Version      int            `json:"version"`
}

// PlotListResponse represents a plot in list results
type PlotListResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Rows         int       `json:"rows"`
	Cols         int       `json:"cols"`
	PlantedCount int       `json:"planted_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlantCellResponse is the updated plot plus advice on the new planting
type PlantCellResponse struct {
	Plot      *PlotResponse          `json:"plot"`
	Placement garden.PlacementResult `json:"placement"`
	Rotation  *garden.Violation      `json:"rotation_violation,omitempty"`
}

// PlacementResponse is the advice for placing a vegetable in a cell
type PlacementResponse struct {
	VegetableID    string                 `json:"vegetable_id"`
	Row            int                    `json:"row"`
	Col            int                    `json:"col"`
	Placement      garden.PlacementResult `json:"placement"`
	CompanionScore int                    `json:"companion_score"`
}

// RotationSuggestionResponse is the suggested group for a season
type RotationSuggestionResponse struct {
	PlotID         uuid.UUID            `json:"plot_id"`
	Year           int                  `json:"year"`
	SuggestedGroup garden.RotationGroup `json:"suggested_group"`
	DisplayName    string               `json:"display_name"`
	Vegetables     []VegetableResponse  `json:"vegetables"`
}

// RotationCheckResponse rates planting a vegetable in a season
type RotationCheckResponse struct {
	PlotID        uuid.UUID         `json:"plot_id"`
	VegetableID   string            `json:"vegetable_id"`
	Year          int               `json:"year"`
	RotationGroup string            `json:"rotation_group,omitempty"`
	Violation     *garden.Violation `json:"violation,omitempty"`
	RotationScore int               `json:"rotation_score"`
}

// RotationStatsResponse wraps the plot statistics for a season
type RotationStatsResponse struct {
	PlotID uuid.UUID `json:"plot_id"`
	Year   int       `json:"year"`
	garden.RotationStats
}

// DominantGroupResponse reports the plot's dominant non-permanent group
type DominantGroupResponse struct {
	PlotID uuid.UUID            `json:"plot_id"`
	Group  garden.RotationGroup `json:"group,omitempty"`
	Found  bool                 `json:"found"`
}

// AutoFillPreviewResponse lists the cells an auto-fill would plant
type AutoFillPreviewResponse struct {
	PlotID   uuid.UUID                     `json:"plot_id"`
	Year     int                           `json:"year"`
	Strategy string                        `json:"strategy"`
	Entries  []garden.AutoFillPreviewEntry `json:"entries"`
}

// AutoFillResponse is the plot after an applied auto-fill
type AutoFillResponse struct {
	Plot        *PlotResponse `json:"plot"`
	Year        int           `json:"year"`
	Strategy    string        `json:"strategy"`
	FilledCount int           `json:"filled_count"`
}

// VegetableResponse represents a catalog entry
type VegetableResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	CategoryName    string   `json:"category_name"`
	RotationGroup   string   `json:"rotation_group,omitempty"`
	CompanionPlants []string `json:"companion_plants"`
	AvoidPlants     []string `json:"avoid_plants"`
	CareDifficulty  string   `json:"care_difficulty"`
}

// RotationGroupInfo describes one rotation group
type RotationGroupInfo struct {
	Group       garden.RotationGroup `json:"group"`
	DisplayName string               `json:"display_name"`
	Permanent   bool                 `json:"permanent"`
	InCycle     bool                 `json:"in_cycle"`
	Next        garden.RotationGroup `json:"next,omitempty"`
}

// RotationGroupsResponse lists the groups and the annual cycle
type RotationGroupsResponse struct {
	Groups []RotationGroupInfo    `json:"groups"`
	Cycle  []garden.RotationGroup `json:"cycle"`
}

// CompatibilityResponse is the pairwise companion rating
type CompatibilityResponse struct {
	VegetableA    string               `json:"vegetable_a"`
	VegetableB    string               `json:"vegetable_b"`
	Compatibility garden.Compatibility `json:"compatibility"`
}

// StrategyResponse describes a planting strategy
type StrategyResponse struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	RotationWeight  decimal.Decimal `json:"rotation_weight"`
	CompanionWeight decimal.Decimal `json:"companion_weight"`
	IsDefault       bool            `json:"is_default"`
}

// displayName turns a slug such as "leafy-greens" into "Leafy Greens".
// A Caser is stateful so each call gets its own.
func displayName(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// ToVegetableResponse converts a catalog entry
func ToVegetableResponse(v *garden.Vegetable) VegetableResponse {
	resp := VegetableResponse{
		ID:              v.ID,
		Name:            v.Name,
		Category:        string(v.Category),
		CategoryName:    displayName(string(v.Category)),
		CompanionPlants: nonNil(v.CompanionPlants),
		AvoidPlants:     nonNil(v.AvoidPlants),
		CareDifficulty:  string(v.CareDifficulty),
	}
	if group, ok := garden.CategoryToGroup(v.Category); ok {
		resp.RotationGroup = string(group)
	}
	return resp
}

// ToPlotResponse converts a plot, naming planted vegetables from catalog
func ToPlotResponse(p *garden.Plot, catalog garden.VegetableCatalog) *PlotResponse {
	cells := make([]CellResponse, 0, len(p.Cells))
	planted := 0
	for _, c := range p.Cells {
		cell := CellResponse{
			ID:          c.ID,
			Row:         c.Row,
			Col:         c.Col,
			VegetableID: c.VegetableID,
			PlantedYear: c.PlantedYear,
		}
		if c.IsPlanted() {
			planted++
			if veg, ok := catalog.GetVegetableByID(c.VegetableID); ok {
				cell.VegetableName = veg.Name
				if group, ok := garden.CategoryToGroup(veg.Category); ok {
					cell.RotationGroup = string(group)
				}
			}
		}
		cells = append(cells, cell)
	}
	return &PlotResponse{
		ID:           p.ID,
		Name:         p.Name,
		Notes:        p.Notes,
		Rows:         p.Rows,
		Cols:         p.Cols,
		PlantedCount: planted,
		Cells:        cells,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToPlotListResponse converts a plot for list results
func ToPlotListResponse(p *garden.Plot) PlotListResponse {
	return PlotListResponse{
		ID:           p.ID,
		Name:         p.Name,
		Rows:         p.Rows,
		Cols:         p.Cols,
		PlantedCount: len(p.PlantedCells()),
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToStrategyResponse converts a planting strategy
func ToStrategyResponse(s strategy.PlantingScoreStrategy, defaultName string) StrategyResponse {
	rotation, companion := s.Weights()
	return StrategyResponse{
		Name:            s.Name(),
		Description:     s.Description(),
		RotationWeight:  rotation,
		CompanionWeight: companion,
		IsDefault:       s.Name() == defaultName,
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
