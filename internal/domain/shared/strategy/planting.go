package strategy

import "github.com/shopspring/decimal"

// Planting strategy names. They double as the auto-fill strategy values
// accepted by the API.
const (
	PlantingRotationFirst  = "rotation-first"
	PlantingCompanionFirst = "companion-first"
	PlantingBalanced       = "balanced"
)

// PlantingScoreStrategy combines a rotation score and a companion score,
// both in the 0-100 range, into a single candidate score.
type PlantingScoreStrategy interface {
	Strategy
	// Weights returns the rotation and companion weights. They sum to one.
	Weights() (rotation, companion decimal.Decimal)
	// Combine returns rotation*wr + companion*wc.
	Combine(rotation, companion int) decimal.Decimal
}
