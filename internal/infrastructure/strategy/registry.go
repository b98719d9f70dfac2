package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared/strategy"
)

// StrategyRegistry manages strategy registrations
type StrategyRegistry struct {
	mu                 sync.RWMutex
	plantingStrategies map[string]strategy.PlantingScoreStrategy
	defaults           map[strategy.StrategyType]string
}

var _ garden.PlantingStrategyResolver = (*StrategyRegistry)(nil)

// NewStrategyRegistry creates a new strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		plantingStrategies: make(map[string]strategy.PlantingScoreStrategy),
		defaults:           make(map[strategy.StrategyType]string),
	}
}

// RegisterPlantingStrategy registers a planting score strategy
func (r *StrategyRegistry) RegisterPlantingStrategy(s strategy.PlantingScoreStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.plantingStrategies[name]; exists {
		return fmt.Errorf("%w: planting strategy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.plantingStrategies[name] = s
	return nil
}

// GetPlantingStrategy returns a planting strategy by name, or the default if name is empty
func (r *StrategyRegistry) GetPlantingStrategy(name string) (strategy.PlantingScoreStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypePlanting]
		if name == "" {
			return nil, fmt.Errorf("%w: no default planting strategy set", shared.ErrNotFound)
		}
	}

	s, exists := r.plantingStrategies[name]
	if !exists {
		return nil, fmt.Errorf("%w: planting strategy '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// GetPlantingStrategyOrDefault returns a planting strategy by name, or the default if not found
func (r *StrategyRegistry) GetPlantingStrategyOrDefault(name string) strategy.PlantingScoreStrategy {
	s, err := r.GetPlantingStrategy(name)
	if err != nil {
		s, _ = r.GetPlantingStrategy("")
	}
	return s
}

// ListPlantingStrategies returns all registered planting strategies sorted by name
func (r *StrategyRegistry) ListPlantingStrategies() []strategy.PlantingScoreStrategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]strategy.PlantingScoreStrategy, 0, len(r.plantingStrategies))
	for _, s := range r.plantingStrategies {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// UnregisterPlantingStrategy removes a planting strategy
func (r *StrategyRegistry) UnregisterPlantingStrategy(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plantingStrategies[name]; !exists {
		return fmt.Errorf("%w: planting strategy '%s' not found", shared.ErrNotFound, name)
	}
	delete(r.plantingStrategies, name)

	if r.defaults[strategy.StrategyTypePlanting] == name {
		delete(r.defaults, strategy.StrategyTypePlanting)
	}
	return nil
}

// SetDefault sets the default strategy for a strategy type
func (r *StrategyRegistry) SetDefault(strategyType strategy.StrategyType, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRegisteredLocked(strategyType, name) {
		return fmt.Errorf("%w: strategy '%s' of type '%s' not found", shared.ErrNotFound, name, strategyType)
	}

	r.defaults[strategyType] = name
	return nil
}

// GetDefault returns the default strategy name for a strategy type
func (r *StrategyRegistry) GetDefault(strategyType strategy.StrategyType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults[strategyType]
}

// IsRegistered returns true if a strategy with the given name is registered for the type
func (r *StrategyRegistry) IsRegistered(strategyType strategy.StrategyType, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isRegisteredLocked(strategyType, name)
}

// isRegisteredLocked checks registration without locking (caller must hold lock)
func (r *StrategyRegistry) isRegisteredLocked(strategyType strategy.StrategyType, name string) bool {
	switch strategyType {
	case strategy.StrategyTypePlanting:
		_, exists := r.plantingStrategies[name]
		return exists
	default:
		return false
	}
}

// Stats returns registration counts for each strategy type
func (r *StrategyRegistry) Stats() map[strategy.StrategyType]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[strategy.StrategyType]int{
		strategy.StrategyTypePlanting: len(r.plantingStrategies),
	}
}
