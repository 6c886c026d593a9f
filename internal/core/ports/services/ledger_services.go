package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

// LedgerReaderSvc defines read operations over committed ledger state.
type LedgerReaderSvc interface {
	// BalanceBetween returns the signed pairwise balance from userA's
	// perspective; positive means userB owes userA.
	BalanceBetween(ctx context.Context, userA, userB string) (decimal.Decimal, error)

	// AllBalancesFor returns userID's non-zero balances keyed by
	// counterparty (threshold one minor unit).
	AllBalancesFor(ctx context.Context, userID string) (map[string]decimal.Decimal, error)

	// SummaryFor derives the owed-to/owes breakdown and net balance.
	SummaryFor(ctx context.Context, userID string) (*domain.BalanceSummary, error)

	// History returns the user's most recent entries, newest first.
	History(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error)

	// EntriesForEvent returns all entries tagged with an event id,
	// apperrors.ErrNothingToReverse if none exist.
	EntriesForEvent(ctx context.Context, eventID string) ([]domain.LedgerEntry, error)

	// BalanceSnapshot materializes the full pairwise balance graph
	// (owner -> counterparty -> signed sum) for the reconciler.
	BalanceSnapshot(ctx context.Context) (map[string]map[string]decimal.Decimal, error)
}

// LedgerWriterSvc defines posting operations. Each call is atomic: the full
// mirrored entry set of one event becomes visible entirely or not at all.
type LedgerWriterSvc interface {
	// RecordExpense posts a mirrored pair per non-payer share, tagged with
	// the expense id. The payer's own share is never posted.
	RecordExpense(ctx context.Context, expense domain.Expense, shares []domain.SplitShare) ([]domain.LedgerEntry, error)

	// RecordSettlement posts the mirrored pair for a manual transfer.
	RecordSettlement(ctx context.Context, settlement domain.Settlement) ([]domain.LedgerEntry, error)

	// ReverseEvent appends sign-inverted siblings for every entry of the
	// event, preserving the originals. ErrNothingToReverse if the event has
	// no entries.
	ReverseEvent(ctx context.Context, eventID string) ([]domain.LedgerEntry, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
