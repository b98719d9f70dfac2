package garden

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Rotation scores. Only their ordering is significant:
// error < warning < mismatch < match, with permanent crops in between.
const (
	RotationScoreMatch     = 100
	RotationScorePermanent = 75
	RotationScoreMismatch  = 60
	RotationScoreWarning   = 35
	RotationScoreError     = 10
)

// RotationAdvisor derives rotation advice from a plot's planting history.
// All methods are pure; none mutates its arguments.
type RotationAdvisor struct {
	catalog VegetableCatalog
}

// NewRotationAdvisor creates a RotationAdvisor over the reference catalog
func NewRotationAdvisor(catalog VegetableCatalog) *RotationAdvisor {
	return &RotationAdvisor{catalog: catalog}
}

// RotationGroupOf resolves a vegetable to its rotation group
func (a *RotationAdvisor) RotationGroupOf(vegetableID string) (RotationGroup, bool) {
	veg, ok := a.catalog.GetVegetableByID(vegetableID)
	if !ok {
		return "", false
	}
	return CategoryToGroup(veg.Category)
}

// SuggestedRotation returns the group to plant in targetYear, based only on
// the record for the immediately preceding year. Without one it returns the
// first member of the cycle.
func (a *RotationAdvisor) SuggestedRotation(plotID uuid.UUID, targetYear int, history []RotationHistoryRecord) RotationGroup {
	for _, rec := range history {
		if rec.PlotID == plotID && rec.Year == targetYear-1 {
			return NextInCycle(rec.RotationGroup)
		}
	}
	return rotationCycle[0]
}

// CheckRotationViolation returns the violation for planting vegetableID in
// the plot in targetYear, or nil. The closest same-group record counts:
// one year ago is an error, two years ago a warning.
func (a *RotationAdvisor) CheckRotationViolation(vegetableID string, plotID uuid.UUID, targetYear int, history []RotationHistoryRecord) *Violation {
	group, ok := a.RotationGroupOf(vegetableID)
	if !ok || group.IsPermanent() {
		return nil
	}

	gap := -1
	offending := 0
	for _, rec := range history {
		if rec.PlotID != plotID || rec.RotationGroup != group {
			continue
		}
		g := targetYear - rec.Year
		if g < 0 {
			continue
		}
		if gap < 0 || g < gap {
			gap = g
			offending = rec.Year
		}
	}

	switch gap {
	case 1:
		return newRotationViolation(SeverityError, plotID, vegetableID, group, offending, gap)
	case 2:
		return newRotationViolation(SeverityWarning, plotID, vegetableID, group, offending, gap)
	default:
		return nil
	}
}

// DominantRotationGroup returns the most planted non-permanent group in the
// plot. Ties go to the group that comes first in AllRotationGroups order.
func (a *RotationAdvisor) DominantRotationGroup(plot *Plot) (RotationGroup, bool) {
	counts := make(map[RotationGroup]int)
	for _, c := range plot.Cells {
		if !c.IsPlanted() {
			continue
		}
		group, ok := a.RotationGroupOf(c.VegetableID)
		if !ok || group.IsPermanent() {
			continue
		}
		counts[group]++
	}

	var best RotationGroup
	bestCount := 0
	for _, g := range allRotationGroups {
		if counts[g] > bestCount {
			best = g
			bestCount = counts[g]
		}
	}
	return best, bestCount > 0
}

// BuildRotationHistoryEntry summarises the plot for year. It returns nil when
// nothing but permanent crops (or nothing at all) is planted. VegetableIDs
// lists every distinct planted vegetable, permanent ones included.
func (a *RotationAdvisor) BuildRotationHistoryEntry(plot *Plot, year int) *RotationHistoryRecord {
	dominant, ok := a.DominantRotationGroup(plot)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(plot.Cells))
	for _, c := range plot.Cells {
		if c.IsPlanted() {
			ids = append(ids, c.VegetableID)
		}
	}
	return &RotationHistoryRecord{
		ID:            uuid.New(),
		PlotID:        plot.ID,
		Year:          year,
		RotationGroup: dominant,
		VegetableIDs:  distinct(ids),
		CreatedAt:     time.Now(),
	}
}

// RotationSummary returns the plot's records, newest first, truncated to
// limit when limit is positive.
func (a *RotationAdvisor) RotationSummary(plotID uuid.UUID, history []RotationHistoryRecord, limit int) []RotationHistoryRecord {
	out := make([]RotationHistoryRecord, 0, len(history))
	for _, rec := range history {
		if rec.PlotID == plotID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Year > out[j].Year
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RotationScore rates planting vegetableID in the plot in targetYear on a 0-100 scale
func (a *RotationAdvisor) RotationScore(vegetableID string, plotID uuid.UUID, targetYear int, history []RotationHistoryRecord) int {
	group, ok := a.RotationGroupOf(vegetableID)
	if ok && group.IsPermanent() {
		return RotationScorePermanent
	}

	if v := a.CheckRotationViolation(vegetableID, plotID, targetYear, history); v != nil {
		if v.Severity == SeverityError {
			return RotationScoreError
		}
		return RotationScoreWarning
	}

	if ok && group == a.SuggestedRotation(plotID, targetYear, history) {
		return RotationScoreMatch
	}
	return RotationScoreMismatch
}
