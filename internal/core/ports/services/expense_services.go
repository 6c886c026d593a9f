package services

import (
	"context"

	"github.com/splitkaro/splitkaro/internal/core/domain"
	"github.com/splitkaro/splitkaro/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense data.
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves an expense with its split shares.
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesForUser retrieves a user's recent expenses.
	ListExpensesForUser(ctx context.Context, userID string, limit int) ([]domain.Expense, error)
}

// ExpenseWriterSvc defines write operations for expense data.
type ExpenseWriterSvc interface {
	// CreateExpense validates the command, computes shares under the
	// requested policy and persists the expense with its ledger trace
	// atomically.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error)

	// ReverseExpense undoes a posted expense by appending offsetting
	// ledger entries; the original entries and the expense row remain.
	ReverseExpense(ctx context.Context, expenseID string, userID string) (*domain.Expense, error)
}

// ExpenseSvcFacade combines all expense service interfaces.
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}

// SettlementReaderSvc defines read operations for settlement data.
type SettlementReaderSvc interface {
	GetSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error)
	ListSettlementsForUser(ctx context.Context, userID string, limit int) ([]domain.Settlement, error)
}

// SettlementWriterSvc defines write operations for settlement data.
type SettlementWriterSvc interface {
	// CreateSettlement records a manual transfer and its mirrored ledger
	// pair atomically.
	CreateSettlement(ctx context.Context, req dto.CreateSettlementRequest, creatorUserID string) (*domain.Settlement, error)

	// ReverseSettlement undoes a posted settlement by appending offsetting
	// ledger entries.
	ReverseSettlement(ctx context.Context, settlementID string, userID string) (*domain.Settlement, error)
}

// SettlementSvcFacade combines all settlement service interfaces.
type SettlementSvcFacade interface {
	SettlementReaderSvc
	SettlementWriterSvc
}
