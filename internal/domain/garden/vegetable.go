package garden

// VegetableCategory is the horticultural category of a catalog entry
type VegetableCategory string

const (
	CategoryBrassica     VegetableCategory = "brassica"
	CategoryLegume       VegetableCategory = "legume"
	CategoryRoot         VegetableCategory = "root"
	CategorySolanaceae   VegetableCategory = "solanaceae"
	CategoryAllium       VegetableCategory = "allium"
	CategoryCucurbit     VegetableCategory = "cucurbit"
	CategoryHerb         VegetableCategory = "herb"
	CategoryLeafyGreens  VegetableCategory = "leafy-greens"
	CategoryPerennialVeg VegetableCategory = "perennial-veg"
	CategoryFruit        VegetableCategory = "fruit"
	CategoryOther        VegetableCategory = "other"
)

// AllVegetableCategories returns every category in declaration order
func AllVegetableCategories() []VegetableCategory {
	return []VegetableCategory{
		CategoryBrassica,
		CategoryLegume,
		CategoryRoot,
		CategorySolanaceae,
		CategoryAllium,
		CategoryCucurbit,
		CategoryHerb,
		CategoryLeafyGreens,
		CategoryPerennialVeg,
		CategoryFruit,
		CategoryOther,
	}
}

// IsValid returns true if the category is known
func (c VegetableCategory) IsValid() bool {
	_, ok := categoryToGroup[c]
	return ok
}

// CareDifficulty describes how much experience a vegetable needs
type CareDifficulty string

const (
	DifficultyBeginner     CareDifficulty = "beginner"
	DifficultyIntermediate CareDifficulty = "intermediate"
	DifficultyAdvanced     CareDifficulty = "advanced"
)

// IsValid returns true if the difficulty is known
func (d CareDifficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// Vegetable is a reference catalog entry.
// CompanionPlants and AvoidPlants hold display names, not ids.
type Vegetable struct {
	ID              string            `json:"id" yaml:"id"`
	Name            string            `json:"name" yaml:"name"`
	Category        VegetableCategory `json:"category" yaml:"category"`
	CompanionPlants []string          `json:"companion_plants" yaml:"companions"`
	AvoidPlants     []string          `json:"avoid_plants" yaml:"avoid"`
	CareDifficulty  CareDifficulty    `json:"care_difficulty" yaml:"difficulty"`
}

// IsBeginner returns true for beginner-friendly vegetables
func (v *Vegetable) IsBeginner() bool {
	return v.CareDifficulty == DifficultyBeginner
}

// VegetableCatalog is the read-only reference catalog the engine consults
type VegetableCatalog interface {
	// GetVegetableByID returns the vegetable and true, or nil and false when unknown
	GetVegetableByID(id string) (*Vegetable, bool)
	// ListAllVegetables returns every vegetable in catalog order
	ListAllVegetables() []Vegetable
}
