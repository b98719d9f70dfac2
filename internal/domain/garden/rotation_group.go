package garden

// RotationGroup is a soil-management family used to plan successive seasons
type RotationGroup string

const (
	// RotationPermanent covers herbs and perennials that are never rotated
	RotationPermanent  RotationGroup = "permanent"
	RotationLegumes    RotationGroup = "legumes"
	RotationBrassicas  RotationGroup = "brassicas"
	RotationRoots      RotationGroup = "roots"
	RotationSolanaceae RotationGroup = "solanaceae"
	RotationAlliums    RotationGroup = "alliums"
	RotationCucurbits  RotationGroup = "cucurbits"
)

// allRotationGroups is the enumeration order. Tie-breaks follow it.
var allRotationGroups = []RotationGroup{
	RotationPermanent,
	RotationLegumes,
	RotationBrassicas,
	RotationRoots,
	RotationSolanaceae,
	RotationAlliums,
	RotationCucurbits,
}

// rotationCycle is the annual bed sequence: legumes -> brassicas -> roots
var rotationCycle = []RotationGroup{
	RotationLegumes,
	RotationBrassicas,
	RotationRoots,
}

var categoryToGroup = map[VegetableCategory]RotationGroup{
	CategoryLegume:       RotationLegumes,
	CategoryBrassica:     RotationBrassicas,
	CategoryLeafyGreens:  RotationBrassicas,
	CategoryRoot:         RotationRoots,
	CategoryOther:        RotationRoots,
	CategorySolanaceae:   RotationSolanaceae,
	CategoryAllium:       RotationAlliums,
	CategoryCucurbit:     RotationCucurbits,
	CategoryHerb:         RotationPermanent,
	CategoryPerennialVeg: RotationPermanent,
	CategoryFruit:        RotationPermanent,
}

// AllRotationGroups returns every rotation group in enumeration order
func AllRotationGroups() []RotationGroup {
	out := make([]RotationGroup, len(allRotationGroups))
	copy(out, allRotationGroups)
	return out
}

// RotationCycle returns the ordered rotation cycle
func RotationCycle() []RotationGroup {
	out := make([]RotationGroup, len(rotationCycle))
	copy(out, rotationCycle)
	return out
}

// CategoryToGroup maps a vegetable category to its rotation group.
// The second result is false for an unknown category.
func CategoryToGroup(category VegetableCategory) (RotationGroup, bool) {
	g, ok := categoryToGroup[category]
	return g, ok
}

// NextInCycle returns the successor of group in the rotation cycle, wrapping
// from the last member to the first. Groups outside the cycle yield the first
// member.
func NextInCycle(group RotationGroup) RotationGroup {
	for i, g := range rotationCycle {
		if g == group {
			return rotationCycle[(i+1)%len(rotationCycle)]
		}
	}
	return rotationCycle[0]
}

// String returns the string representation of the group
func (g RotationGroup) String() string {
	return string(g)
}

// IsValid returns true if the group is known
func (g RotationGroup) IsValid() bool {
	for _, known := range allRotationGroups {
		if known == g {
			return true
		}
	}
	return false
}

// IsPermanent reports whether the group is exempt from rotation
func (g RotationGroup) IsPermanent() bool {
	return g == RotationPermanent
}

// InCycle reports whether the group takes part in the annual cycle
func (g RotationGroup) InCycle() bool {
	for _, c := range rotationCycle {
		if c == g {
			return true
		}
	}
	return false
}
