package garden

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared/strategy"
)

// DifficultyFilter restricts which vegetables auto-fill may choose
type DifficultyFilter string

const (
	DifficultyFilterAll          DifficultyFilter = "all"
	DifficultyFilterBeginnerOnly DifficultyFilter = "beginner-only"
)

// IsValid returns true if the filter is known
func (f DifficultyFilter) IsValid() bool {
	return f == DifficultyFilterAll || f == DifficultyFilterBeginnerOnly
}

// allows reports whether veg passes the filter
func (f DifficultyFilter) allows(veg *Vegetable) bool {
	return f == DifficultyFilterAll || veg.IsBeginner()
}

const (
	// topCandidates is how many best-scored candidates auto-fill chooses from
	topCandidates = 3
	beginnerBonus = 5
)

// AutoFillOptions configures an auto-fill run
type AutoFillOptions struct {
	Strategy         string           `json:"strategy"`
	DifficultyFilter DifficultyFilter `json:"difficulty_filter"`
	RespectExisting  bool             `json:"respect_existing"`
}

// DefaultAutoFillOptions returns balanced, all difficulties, keep existing plants
func DefaultAutoFillOptions() AutoFillOptions {
	return AutoFillOptions{
		Strategy:         strategy.PlantingBalanced,
		DifficultyFilter: DifficultyFilterAll,
		RespectExisting:  true,
	}
}

// Validate checks the option values
func (o AutoFillOptions) Validate() error {
	switch o.Strategy {
	case strategy.PlantingRotationFirst, strategy.PlantingCompanionFirst, strategy.PlantingBalanced:
	default:
		return shared.NewDomainError("INVALID_STRATEGY", "Unknown auto-fill strategy: "+o.Strategy)
	}
	if !o.DifficultyFilter.IsValid() {
		return shared.NewDomainError("INVALID_DIFFICULTY_FILTER", "Unknown difficulty filter: "+string(o.DifficultyFilter))
	}
	return nil
}

// PlantingStrategyResolver looks up planting score strategies by name
type PlantingStrategyResolver interface {
	GetPlantingStrategy(name string) (strategy.PlantingScoreStrategy, error)
}

type builtinStrategies map[string]strategy.PlantingScoreStrategy

func (b builtinStrategies) GetPlantingStrategy(name string) (strategy.PlantingScoreStrategy, error) {
	if s, ok := b[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: planting strategy %q", shared.ErrNotFound, name)
}

func newBuiltinStrategies() builtinStrategies {
	b := make(builtinStrategies)
	for _, s := range strategy.DefaultPlantingStrategies() {
		b[s.Name()] = s
	}
	return b
}

// AutoFillPreviewEntry describes one cell auto-fill would plant
type AutoFillPreviewEntry struct {
	CellID      uuid.UUID `json:"cell_id"`
	VegetableID string    `json:"vegetable_id"`
	Reason      string    `json:"reason"`
}

// RotationStats summarises how well a plot follows the suggested rotation
type RotationStats struct {
	SuggestedGroup    RotationGroup         `json:"suggested_group"`
	CompliancePercent int                   `json:"compliance_percent"`
	GroupCounts       map[RotationGroup]int `json:"group_counts"`
}

// AutoFillEngine fills empty plot cells by combining rotation and companion scores
type AutoFillEngine struct {
	catalog    VegetableCatalog
	advisor    *RotationAdvisor
	companions *CompanionEvaluator
	strategies PlantingStrategyResolver
	picker     Picker
}

// AutoFillOption configures an AutoFillEngine
type AutoFillOption func(*AutoFillEngine)

// WithPicker sets the random source used to choose among top candidates
func WithPicker(p Picker) AutoFillOption {
	return func(e *AutoFillEngine) {
		e.picker = p
	}
}

// WithStrategyResolver sets where planting strategies are looked up
func WithStrategyResolver(r PlantingStrategyResolver) AutoFillOption {
	return func(e *AutoFillEngine) {
		e.strategies = r
	}
}

// NewAutoFillEngine creates an engine over the reference catalog
func NewAutoFillEngine(catalog VegetableCatalog, opts ...AutoFillOption) *AutoFillEngine {
	e := &AutoFillEngine{
		catalog:    catalog,
		advisor:    NewRotationAdvisor(catalog),
		companions: NewCompanionEvaluator(catalog),
		strategies: newBuiltinStrategies(),
		picker:     NewRandomPicker(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Advisor returns the engine's rotation advisor
func (e *AutoFillEngine) Advisor() *RotationAdvisor {
	return e.advisor
}

// Companions returns the engine's companion evaluator
func (e *AutoFillEngine) Companions() *CompanionEvaluator {
	return e.companions
}

type scoredCandidate struct {
	veg   *Vegetable
	score decimal.Decimal
}

// AutoFillPlot returns a new cell collection with the plot's originally empty
// cells planted for year.
//
// With RespectExisting false every cell is cleared first, but only the cells
// that were empty in the original plot are refilled, so previously planted
// cells come back empty.
func (e *AutoFillEngine) AutoFillPlot(plot *Plot, opts AutoFillOptions, history []RotationHistoryRecord, year int) []Cell {
	target := e.advisor.SuggestedRotation(plot.ID, year, history)

	empty := make([]int, 0, len(plot.Cells))
	for i, c := range plot.Cells {
		if !c.IsPlanted() {
			empty = append(empty, i)
		}
	}
	if len(empty) == 0 {
		return plot.CloneCells()
	}

	pool := e.candidatePool(target, opts.DifficultyFilter)

	working := plot.CloneCells()
	if !opts.RespectExisting {
		for i := range working {
			working[i] = working[i].Cleared()
		}
	}
	if len(pool) == 0 {
		return working
	}

	scorer := e.resolveStrategy(opts.Strategy)
	rotation := make(map[string]int, len(pool))
	for _, veg := range pool {
		rotation[veg.ID] = e.advisor.RotationScore(veg.ID, plot.ID, year, history)
	}

	workingPlot := plot.withCells(working)
	for _, i := range empty {
		candidates := make([]scoredCandidate, 0, len(pool))
		for _, veg := range pool {
			companion := e.companions.CompanionScore(veg.ID, working[i], workingPlot)
			score := scorer.Combine(rotation[veg.ID], companion)
			if opts.DifficultyFilter == DifficultyFilterAll || veg.IsBeginner() {
				score = score.Add(decimal.NewFromInt(beginnerBonus))
			}
			if opts.DifficultyFilter != DifficultyFilterAll && !veg.IsBeginner() {
				continue
			}
			candidates = append(candidates, scoredCandidate{veg: veg, score: score})
		}
		if len(candidates) == 0 {
			continue
		}

		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].score.GreaterThan(candidates[b].score)
		})
		top := min(topCandidates, len(candidates))
		chosen := candidates[e.picker.IntN(top)]

		working[i].VegetableID = chosen.veg.ID
		working[i].PlantedYear = year
	}

	return working
}

// candidatePool returns catalog vegetables in the target group passing the
// difficulty filter, or every vegetable passing it when the group has none
func (e *AutoFillEngine) candidatePool(target RotationGroup, filter DifficultyFilter) []*Vegetable {
	all := e.catalog.ListAllVegetables()
	pool := make([]*Vegetable, 0, len(all))
	for i := range all {
		veg := &all[i]
		group, ok := CategoryToGroup(veg.Category)
		if ok && group == target && filter.allows(veg) {
			pool = append(pool, veg)
		}
	}
	if len(pool) > 0 {
		return pool
	}
	for i := range all {
		if filter.allows(&all[i]) {
			pool = append(pool, &all[i])
		}
	}
	return pool
}

// resolveStrategy falls back to the balanced strategy for unknown names
func (e *AutoFillEngine) resolveStrategy(name string) strategy.PlantingScoreStrategy {
	if s, err := e.strategies.GetPlantingStrategy(name); err == nil {
		return s
	}
	return strategy.NewBalancedStrategy()
}

// PreviewAutoFill lists the cells AutoFillPlot would plant, without changing anything
func (e *AutoFillEngine) PreviewAutoFill(plot *Plot, opts AutoFillOptions, history []RotationHistoryRecord, year int) []AutoFillPreviewEntry {
	result := e.AutoFillPlot(plot, opts, history, year)
	entries := make([]AutoFillPreviewEntry, 0, len(result))
	for i, cell := range result {
		if plot.Cells[i].IsPlanted() || !cell.IsPlanted() {
			continue
		}
		entries = append(entries, AutoFillPreviewEntry{
			CellID:      cell.ID,
			VegetableID: cell.VegetableID,
			Reason:      e.previewReason(cell.VegetableID),
		})
	}
	return entries
}

func (e *AutoFillEngine) previewReason(vegetableID string) string {
	name := vegetableID
	if veg, ok := e.catalog.GetVegetableByID(vegetableID); ok {
		name = veg.Name
	}
	group, _ := e.advisor.RotationGroupOf(vegetableID)
	return fmt.Sprintf("%s (%s) matches the rotation suggestion", name, group)
}

// PlotRotationStats reports the suggested group for year, the share of
// planted cells already in that group and a count per group
func (e *AutoFillEngine) PlotRotationStats(plot *Plot, history []RotationHistoryRecord, year int) RotationStats {
	suggested := e.advisor.SuggestedRotation(plot.ID, year, history)
	counts := make(map[RotationGroup]int, len(allRotationGroups))
	for _, g := range allRotationGroups {
		counts[g] = 0
	}

	planted, matching := 0, 0
	for _, c := range plot.Cells {
		if !c.IsPlanted() {
			continue
		}
		planted++
		group, ok := e.advisor.RotationGroupOf(c.VegetableID)
		if !ok {
			continue
		}
		counts[group]++
		if group == suggested {
			matching++
		}
	}

	compliance := 0
	if planted > 0 {
		compliance = int(decimal.NewFromInt(int64(100 * matching)).
			Div(decimal.NewFromInt(int64(planted))).
			Round(0).
			IntPart())
	}

	return RotationStats{
		SuggestedGroup:    suggested,
		CompliancePercent: compliance,
		GroupCounts:       counts,
	}
}
