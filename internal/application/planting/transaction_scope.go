package planting

import (
	"context"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
)

// TransactionScope runs plot and rotation history writes atomically.
// When fn returns an error every write made through repos is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to one transaction
type TransactionalRepositories interface {
	PlotRepo() garden.PlotRepository
	HistoryRepo() garden.RotationHistoryRepository
}

// NoOpTransactionScope calls fn directly with the repositories it was
// built with. Used in tests and as the fallback when no database scope is
// configured.
type NoOpTransactionScope struct {
	plots   garden.PlotRepository
	history garden.RotationHistoryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(plots garden.PlotRepository, history garden.RotationHistoryRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{plots: plots, history: history}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PlotRepo returns the plot repository
func (s *NoOpTransactionScope) PlotRepo() garden.PlotRepository {
	return s.plots
}

// HistoryRepo returns the rotation history repository
func (s *NoOpTransactionScope) HistoryRepo() garden.RotationHistoryRepository {
	return s.history
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
