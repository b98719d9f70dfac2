package garden

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Compatibility of two vegetables grown side by side
type Compatibility string

const (
	CompatibilityGood    Compatibility = "good"
	CompatibilityNeutral Compatibility = "neutral"
	CompatibilityBad     Compatibility = "bad"
)

// Companion score weights
const (
	companionBaseScore   = 50
	companionGoodReward  = 15
	companionBadPenalty  = 25
	maxCompanionProposal = 3
)

// Suggestion types
const (
	SuggestionGoodNeighbour = "good-neighbour"
	SuggestionCompanion     = "companion"
)

// Suggestion is positive placement advice
type Suggestion struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Plants  []string `json:"plants"`
}

// PlacementResult is the advisory outcome of placing a vegetable in a cell.
// IsValid is always true; incompatibility never blocks a placement.
type PlacementResult struct {
	IsValid       bool          `json:"is_valid"`
	Warnings      []Violation   `json:"warnings"`
	Suggestions   []Suggestion  `json:"suggestions"`
	Compatibility Compatibility `json:"compatibility"`
}

// CompanionEvaluator rates neighbouring plantings using the catalog's
// companion and avoid lists
type CompanionEvaluator struct {
	catalog VegetableCatalog
}

// NewCompanionEvaluator creates a CompanionEvaluator over the reference catalog
func NewCompanionEvaluator(catalog VegetableCatalog) *CompanionEvaluator {
	return &CompanionEvaluator{catalog: catalog}
}

// CheckCompanionCompatibility returns bad if either vegetable's avoid list
// names the other, good if either companion list does, neutral otherwise or
// when either vegetable is unknown. The result is commutative.
func (e *CompanionEvaluator) CheckCompanionCompatibility(vegA, vegB string) Compatibility {
	a, ok := e.catalog.GetVegetableByID(vegA)
	if !ok {
		return CompatibilityNeutral
	}
	b, ok := e.catalog.GetVegetableByID(vegB)
	if !ok {
		return CompatibilityNeutral
	}
	return compatibilityOf(a, b)
}

func compatibilityOf(a, b *Vegetable) Compatibility {
	if listNames(a.AvoidPlants, b.Name) || listNames(b.AvoidPlants, a.Name) {
		return CompatibilityBad
	}
	if listNames(a.CompanionPlants, b.Name) || listNames(b.CompanionPlants, a.Name) {
		return CompatibilityGood
	}
	return CompatibilityNeutral
}

// listNames reports whether any entry and name contain one another,
// ignoring case. "Carrot" matches "carrots" and the other way round.
func listNames(list []string, name string) bool {
	fold := cases.Fold()
	n := strings.TrimSpace(fold.String(name))
	if n == "" {
		return false
	}
	for _, entry := range list {
		e := strings.TrimSpace(fold.String(entry))
		if e == "" {
			continue
		}
		if strings.Contains(e, n) || strings.Contains(n, e) {
			return true
		}
	}
	return false
}

// Adjacency returns the up to eight cells within one row and one column of
// cell, excluding the cell itself
func Adjacency(cell Cell, cells []Cell) []Cell {
	out := make([]Cell, 0, 8)
	for _, c := range cells {
		if c.Row == cell.Row && c.Col == cell.Col {
			continue
		}
		if abs(c.Row-cell.Row) <= 1 && abs(c.Col-cell.Col) <= 1 {
			out = append(out, c)
		}
	}
	return out
}

// PlantedAdjacency returns the adjacent cells that hold a vegetable
func PlantedAdjacency(cell Cell, cells []Cell) []Cell {
	adj := Adjacency(cell, cells)
	out := adj[:0]
	for _, c := range adj {
		if c.IsPlanted() {
			out = append(out, c)
		}
	}
	return out
}

// ValidatePlacement checks vegetableID against the planted neighbours of target
func (e *CompanionEvaluator) ValidatePlacement(vegetableID string, target Cell, plot *Plot) PlacementResult {
	result := PlacementResult{
		IsValid:       true,
		Warnings:      []Violation{},
		Suggestions:   []Suggestion{},
		Compatibility: CompatibilityNeutral,
	}

	neighbours := PlantedAdjacency(target, plot.Cells)
	var good []string
	anyBad := false
	for _, n := range neighbours {
		switch e.CheckCompanionCompatibility(vegetableID, n.VegetableID) {
		case CompatibilityBad:
			anyBad = true
			result.Warnings = append(result.Warnings, Violation{
				Type:        ViolationTypeAvoid,
				Severity:    SeverityWarning,
				PlotID:      plot.ID,
				VegetableID: n.VegetableID,
				CellID:      n.ID,
				Message: fmt.Sprintf("%s should not be grown next to %s (%s)",
					e.displayName(vegetableID), e.displayName(n.VegetableID), n.Label()),
			})
		case CompatibilityGood:
			good = append(good, e.displayName(n.VegetableID))
		}
	}

	switch {
	case anyBad:
		result.Compatibility = CompatibilityBad
	case len(good) > 0:
		result.Compatibility = CompatibilityGood
	}

	if len(good) > 0 {
		result.Suggestions = append(result.Suggestions, Suggestion{
			Type:    SuggestionGoodNeighbour,
			Message: fmt.Sprintf("Good companions nearby: %s", strings.Join(good, ", ")),
			Plants:  good,
		})
	}

	if len(neighbours) == 0 {
		if veg, ok := e.catalog.GetVegetableByID(vegetableID); ok && len(veg.CompanionPlants) > 0 {
			n := min(len(veg.CompanionPlants), maxCompanionProposal)
			plants := make([]string, n)
			copy(plants, veg.CompanionPlants[:n])
			result.Suggestions = append(result.Suggestions, Suggestion{
				Type:    SuggestionCompanion,
				Message: fmt.Sprintf("Consider planting %s nearby", strings.Join(plants, ", ")),
				Plants:  plants,
			})
		}
	}

	return result
}

// CompanionScore rates vegetableID in target on a 0-100 scale: 50 with no
// planted neighbours, +15 per good neighbour, -25 per bad one
func (e *CompanionEvaluator) CompanionScore(vegetableID string, target Cell, plot *Plot) int {
	neighbours := PlantedAdjacency(target, plot.Cells)
	if len(neighbours) == 0 {
		return companionBaseScore
	}
	good, bad := 0, 0
	for _, n := range neighbours {
		switch e.CheckCompanionCompatibility(vegetableID, n.VegetableID) {
		case CompatibilityGood:
			good++
		case CompatibilityBad:
			bad++
		}
	}
	score := companionBaseScore + companionGoodReward*good - companionBadPenalty*bad
	return max(0, min(100, score))
}

func (e *CompanionEvaluator) displayName(vegetableID string) string {
	if veg, ok := e.catalog.GetVegetableByID(vegetableID); ok {
		return veg.Name
	}
	return vegetableID
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
