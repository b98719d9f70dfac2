package strategy

import "github.com/shopspring/decimal"

// WeightedPlantingStrategy is a PlantingScoreStrategy with fixed weights
type WeightedPlantingStrategy struct {
	BaseStrategy
	rotationWeight  decimal.Decimal
	companionWeight decimal.Decimal
}

func newWeightedPlantingStrategy(name, description string, rotation, companion decimal.Decimal) *WeightedPlantingStrategy {
	return &WeightedPlantingStrategy{
		BaseStrategy:    NewBaseStrategy(name, StrategyTypePlanting, description),
		rotationWeight:  rotation,
		companionWeight: companion,
	}
}

// NewRotationFirstStrategy favours rotation fitness (70/30)
func NewRotationFirstStrategy() *WeightedPlantingStrategy {
	return newWeightedPlantingStrategy(
		PlantingRotationFirst,
		"Prioritise crop rotation: 70% rotation score, 30% companion score",
		decimal.RequireFromString("0.7"),
		decimal.RequireFromString("0.3"),
	)
}

// NewCompanionFirstStrategy favours companion fitness (30/70)
func NewCompanionFirstStrategy() *WeightedPlantingStrategy {
	return newWeightedPlantingStrategy(
		PlantingCompanionFirst,
		"Prioritise companion planting: 70% companion score, 30% rotation score",
		decimal.RequireFromString("0.3"),
		decimal.RequireFromString("0.7"),
	)
}

// NewBalancedStrategy averages both scores
func NewBalancedStrategy() *WeightedPlantingStrategy {
	return newWeightedPlantingStrategy(
		PlantingBalanced,
		"Average of rotation score and companion score",
		decimal.RequireFromString("0.5"),
		decimal.RequireFromString("0.5"),
	)
}

// Weights returns the rotation and companion weights
func (s *WeightedPlantingStrategy) Weights() (decimal.Decimal, decimal.Decimal) {
	return s.rotationWeight, s.companionWeight
}

// Combine weighs both scores
func (s *WeightedPlantingStrategy) Combine(rotation, companion int) decimal.Decimal {
	r := decimal.NewFromInt(int64(rotation)).Mul(s.rotationWeight)
	c := decimal.NewFromInt(int64(companion)).Mul(s.companionWeight)
	return r.Add(c)
}

// DefaultPlantingStrategies returns the built-in planting strategies
func DefaultPlantingStrategies() []PlantingScoreStrategy {
	return []PlantingScoreStrategy{
		NewRotationFirstStrategy(),
		NewCompanionFirstStrategy(),
		NewBalancedStrategy(),
	}
}
