package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/application/planting"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
)

// GormTransactionScope implements planting.TransactionScope with a GORM
// transaction. Repositories handed to fn share that transaction.
type GormTransactionScope struct {
	db    *gorm.DB
	plots *GormPlotRepository
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db, plots: NewGormPlotRepository(db)}
}

// Execute runs fn in a transaction, rolling back when it returns an error
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos planting.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, plots: s.plots.WithTx(tx)})
	})
}

type gormTransactionalRepositories struct {
	tx    *gorm.DB
	plots *GormPlotRepository
}

func (r *gormTransactionalRepositories) PlotRepo() garden.PlotRepository {
	return r.plots
}

func (r *gormTransactionalRepositories) HistoryRepo() garden.RotationHistoryRepository {
	return NewGormRotationHistoryRepository(r.tx)
}

var (
	_ planting.TransactionScope          = (*GormTransactionScope)(nil)
	_ planting.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
