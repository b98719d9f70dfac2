package planting

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared/strategy"
)

// ReferenceService serves the vegetable catalog, the rotation groups and the
// planting strategies
type ReferenceService struct {
	catalog    garden.VegetableCatalog
	companions *garden.CompanionEvaluator
	strategies StrategyCatalog
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(catalog garden.VegetableCatalog, strategies StrategyCatalog) *ReferenceService {
	return &ReferenceService{
		catalog:    catalog,
		companions: garden.NewCompanionEvaluator(catalog),
		strategies: strategies,
	}
}

// ListVegetables returns catalog entries matching every non-empty filter field.
// Query matches a case-folded substring of the id or the name.
func (s *ReferenceService) ListVegetables(_ context.Context, filter VegetableFilter) ([]VegetableResponse, error) {
	if filter.Category != "" && !garden.VegetableCategory(filter.Category).IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown vegetable category: "+filter.Category)
	}
	if filter.Difficulty != "" && !garden.CareDifficulty(filter.Difficulty).IsValid() {
		return nil, shared.NewDomainError("INVALID_DIFFICULTY", "Unknown care difficulty: "+filter.Difficulty)
	}
	if filter.RotationGroup != "" && !garden.RotationGroup(filter.RotationGroup).IsValid() {
		return nil, shared.NewDomainError("INVALID_ROTATION_GROUP", "Unknown rotation group: "+filter.RotationGroup)
	}

	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(filter.Query))

	all := s.catalog.ListAllVegetables()
	out := make([]VegetableResponse, 0, len(all))
	for i := range all {
		veg := &all[i]
		if filter.Category != "" && string(veg.Category) != filter.Category {
			continue
		}
		if filter.Difficulty != "" && string(veg.CareDifficulty) != filter.Difficulty {
			continue
		}
		if filter.RotationGroup != "" {
			group, ok := garden.CategoryToGroup(veg.Category)
			if !ok || string(group) != filter.RotationGroup {
				continue
			}
		}
		if query != "" &&
			!strings.Contains(fold.String(veg.Name), query) &&
			!strings.Contains(fold.String(veg.ID), query) {
			continue
		}
		out = append(out, ToVegetableResponse(veg))
	}
	return out, nil
}

// GetVegetable returns one catalog entry
func (s *ReferenceService) GetVegetable(_ context.Context, id string) (*VegetableResponse, error) {
	veg, ok := s.catalog.GetVegetableByID(id)
	if !ok {
		return nil, shared.ErrNotFound
	}
	resp := ToVegetableResponse(veg)
	return &resp, nil
}

// RotationGroups lists every group in enumeration order with its successor in the cycle
func (s *ReferenceService) RotationGroups(_ context.Context) RotationGroupsResponse {
	groups := garden.AllRotationGroups()
	infos := make([]RotationGroupInfo, 0, len(groups))
	for _, g := range groups {
		info := RotationGroupInfo{
			Group:       g,
			DisplayName: displayName(string(g)),
			Permanent:   g.IsPermanent(),
			InCycle:     g.InCycle(),
		}
		if info.InCycle {
			info.Next = garden.NextInCycle(g)
		}
		infos = append(infos, info)
	}
	return RotationGroupsResponse{Groups: infos, Cycle: garden.RotationCycle()}
}

// Compatibility rates growing a next to b
func (s *ReferenceService) Compatibility(_ context.Context, a, b string) (*CompatibilityResponse, error) {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Both vegetable ids are required")
	}
	return &CompatibilityResponse{
		VegetableA:    a,
		VegetableB:    b,
		Compatibility: s.companions.CheckCompanionCompatibility(a, b),
	}, nil
}

// ListStrategies returns the registered planting strategies
func (s *ReferenceService) ListStrategies(_ context.Context) []StrategyResponse {
	defaultName := s.strategies.GetDefault(strategy.StrategyTypePlanting)
	list := s.strategies.ListPlantingStrategies()
	out := make([]StrategyResponse, 0, len(list))
	for _, st := range list {
		out = append(out, ToStrategyResponse(st, defaultName))
	}
	return out
}
