package garden

import (
	"fmt"

	"github.com/google/uuid"
)

// Severity of an advisory finding
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Violation types
const (
	ViolationTypeRotation = "rotation"
	ViolationTypeAvoid    = "avoid"
)

// Violation is an advisory finding surfaced to the caller. It is data, not an error.
type Violation struct {
	Type          string    `json:"type"`
	Severity      Severity  `json:"severity"`
	PlotID        uuid.UUID `json:"plot_id"`
	VegetableID   string    `json:"vegetable_id"`
	OffendingYear int       `json:"offending_year,omitempty"`
	CellID        uuid.UUID `json:"cell_id,omitempty"`
	Message       string    `json:"message"`
}

func newRotationViolation(severity Severity, plotID uuid.UUID, vegetableID string, group RotationGroup, offendingYear, gap int) *Violation {
	return &Violation{
		Type:          ViolationTypeRotation,
		Severity:      severity,
		PlotID:        plotID,
		VegetableID:   vegetableID,
		OffendingYear: offendingYear,
		Message: fmt.Sprintf("%s were grown in this plot in %d (%d year(s) ago); wait at least 3 years",
			group, offendingYear, gap),
	}
}
