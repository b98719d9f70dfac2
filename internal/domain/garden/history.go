package garden

import (
	"time"

	"github.com/google/uuid"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
)

// RotationHistoryRecord records the dominant rotation group a plot held in a
// given year. Records are immutable once created.
type RotationHistoryRecord struct {
	ID            uuid.UUID     `json:"id"`
	PlotID        uuid.UUID     `json:"plot_id"`
	Year          int           `json:"year"`
	RotationGroup RotationGroup `json:"rotation_group"`
	VegetableIDs  []string      `json:"vegetable_ids"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewRotationHistoryRecord validates and creates a history record.
// Duplicate vegetable ids are dropped, keeping first-seen order.
func NewRotationHistoryRecord(plotID uuid.UUID, year int, group RotationGroup, vegetableIDs []string) (*RotationHistoryRecord, error) {
	if plotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLOT", "Plot ID cannot be empty")
	}
	if err := ValidateYear(year); err != nil {
		return nil, err
	}
	if !group.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROTATION_GROUP", "Unknown rotation group: "+string(group))
	}
	return &RotationHistoryRecord{
		ID:            uuid.New(),
		PlotID:        plotID,
		Year:          year,
		RotationGroup: group,
		VegetableIDs:  distinct(vegetableIDs),
		CreatedAt:     time.Now(),
	}, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
