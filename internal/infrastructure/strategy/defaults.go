package strategy

import (
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared/strategy"
)

// NewRegistryWithDefaults creates a registry with the built-in planting
// strategies registered and defaultPlanting as the default. An empty
// defaultPlanting selects the balanced strategy.
func NewRegistryWithDefaults(defaultPlanting string) (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	for _, s := range strategy.DefaultPlantingStrategies() {
		if err := r.RegisterPlantingStrategy(s); err != nil {
			return nil, err
		}
	}

	if defaultPlanting == "" {
		defaultPlanting = strategy.PlantingBalanced
	}
	if err := r.SetDefault(strategy.StrategyTypePlanting, defaultPlanting); err != nil {
		return nil, err
	}

	return r, nil
}
