package repositories

import (
	"context"
	"time"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

// ExpenseReader defines read operations for expense data.
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense with its split shares.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesByUser retrieves expenses the user paid or participated
	// in, newest first, capped at limit.
	ListExpensesByUser(ctx context.Context, userID string, limit int) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expense data.
type ExpenseWriter interface {
	// SaveExpense persists an expense, its split shares and its ledger
	// entries within a single database transaction.
	SaveExpense(ctx context.Context, expense domain.Expense, shares []domain.SplitShare, entries []domain.LedgerEntry) error

	// UpdateExpenseStatus transitions an expense's lifecycle status,
	// appending the reversal entries in the same transaction.
	UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, entries []domain.LedgerEntry, updatedAt time.Time) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

// SettlementReader defines read operations for settlement data.
type SettlementReader interface {
	// FindSettlementByID retrieves a settlement by id.
	FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error)

	// ListSettlementsByUser retrieves settlements where the user is either
	// side, newest first, capped at limit.
	ListSettlementsByUser(ctx context.Context, userID string, limit int) ([]domain.Settlement, error)
}

// SettlementWriter defines write operations for settlement data.
type SettlementWriter interface {
	// SaveSettlement persists a settlement and its mirrored ledger pair
	// within a single database transaction.
	SaveSettlement(ctx context.Context, settlement domain.Settlement, entries []domain.LedgerEntry) error

	// UpdateSettlementStatus transitions a settlement's lifecycle status,
	// appending the reversal entries in the same transaction.
	UpdateSettlementStatus(ctx context.Context, settlementID string, status domain.ExpenseStatus, entries []domain.LedgerEntry, updatedAt time.Time) error
}

// SettlementRepositoryFacade combines all settlement repository interfaces.
type SettlementRepositoryFacade interface {
	SettlementReader
	SettlementWriter
}
