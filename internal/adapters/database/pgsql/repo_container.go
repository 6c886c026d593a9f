package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/splitkaro/splitkaro/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository against the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:     NewPgxLedgerRepository(dbPool),
		ExpenseRepo:    NewPgxExpenseRepository(dbPool),
		SettlementRepo: NewPgxSettlementRepository(dbPool),
	}
}
