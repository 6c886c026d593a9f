package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/apperrors"
	"github.com/splitkaro/splitkaro/internal/core/domain"
	portsrepo "github.com/splitkaro/splitkaro/internal/core/ports/repositories"
	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
	"github.com/splitkaro/splitkaro/internal/utils/accounting"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ledgerService owns the mirrored-pair accounting semantics over the
// append-only entry store. It never issues an unmirrored write: every
// posting goes through the pair builders and a zero-sum check before it
// reaches the repository.
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerSvcFacade.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// RecordExpense posts one mirrored pair per non-payer share, tagged with the
// expense id, in a single atomic append. A payer-only expense produces no
// entries and is not an error.
func (s *ledgerService) RecordExpense(ctx context.Context, expense domain.Expense, shares []domain.SplitShare) ([]domain.LedgerEntry, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: expense has no split shares", apperrors.ErrValidation)
	}
	if expense.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}

	entries, err := accounting.BuildExpenseEntries(expense, shares, time.Now().UTC())
	if err != nil {
		s.LogError(ctx, err, "Mirrored pair construction failed", slog.String("expense_id", expense.ExpenseID))
		return nil, fmt.Errorf("internal ledger invariant violated: %w", err)
	}
	if len(entries) == 0 {
		s.LogDebug(ctx, "Expense has no counterparties, nothing posted", slog.String("expense_id", expense.ExpenseID))
		return nil, nil
	}

	if err := s.ledgerRepo.AppendEntries(ctx, entries); err != nil {
		s.LogError(ctx, err, "Failed to append expense entries", slog.String("expense_id", expense.ExpenseID))
		return nil, fmt.Errorf("failed to append expense entries: %w", err)
	}
	s.LogInfo(ctx, "Expense posted to ledger",
		slog.String("expense_id", expense.ExpenseID),
		slog.Int("entry_count", len(entries)))
	return entries, nil
}

// RecordSettlement posts the mirrored pair for a manual transfer. Paying
// more than is owed is allowed and flips the pairwise balance.
func (s *ledgerService) RecordSettlement(ctx context.Context, settlement domain.Settlement) ([]domain.LedgerEntry, error) {
	if settlement.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: settlement amount must be positive", apperrors.ErrValidation)
	}
	if settlement.FromUserID == settlement.ToUserID {
		return nil, fmt.Errorf("%w: cannot settle with oneself", apperrors.ErrValidation)
	}

	entries, err := accounting.BuildSettlementEntries(settlement, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("internal ledger invariant violated: %w", err)
	}
	if err := s.ledgerRepo.AppendEntries(ctx, entries); err != nil {
		s.LogError(ctx, err, "Failed to append settlement entries", slog.String("settlement_id", settlement.SettlementID))
		return nil, fmt.Errorf("failed to append settlement entries: %w", err)
	}
	s.LogInfo(ctx, "Settlement posted to ledger",
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("from_user_id", settlement.FromUserID),
		slog.String("to_user_id", settlement.ToUserID))
	return entries, nil
}

// ReverseEvent appends a sign-inverted sibling for every entry tagged with
// eventID. Prior entries are never touched; the event's net effect becomes
// zero while its full history stays queryable.
func (s *ledgerService) ReverseEvent(ctx context.Context, eventID string) ([]domain.LedgerEntry, error) {
	original, err := s.EntriesForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	reversals := accounting.BuildReversalEntries(original, time.Now().UTC())
	if err := accounting.ValidateZeroSum(reversals); err != nil {
		return nil, fmt.Errorf("internal ledger invariant violated: %w", err)
	}
	if err := s.ledgerRepo.AppendEntries(ctx, reversals); err != nil {
		s.LogError(ctx, err, "Failed to append reversal entries", slog.String("event_id", eventID))
		return nil, fmt.Errorf("failed to append reversal entries: %w", err)
	}
	s.LogInfo(ctx, "Event reversed in ledger",
		slog.String("event_id", eventID),
		slog.Int("entry_count", len(reversals)))
	return reversals, nil
}

// EntriesForEvent returns every entry tagged with eventID, or
// ErrNothingToReverse if the event left no ledger trace.
func (s *ledgerService) EntriesForEvent(ctx context.Context, eventID string) ([]domain.LedgerEntry, error) {
	entries, err := s.ledgerRepo.FindEntriesByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries for event %s: %w", eventID, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: event %s", apperrors.ErrNothingToReverse, eventID)
	}
	return entries, nil
}

// BalanceBetween returns the signed sum of userA's entries against userB.
// Positive means userB owes userA.
func (s *ledgerService) BalanceBetween(ctx context.Context, userA, userB string) (decimal.Decimal, error) {
	balance, err := s.ledgerRepo.SumBetween(ctx, userA, userB)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum entries between %s and %s: %w", userA, userB, err)
	}
	return balance, nil
}

// AllBalancesFor returns userID's balances grouped by counterparty, dropping
// anything smaller in magnitude than one minor unit.
func (s *ledgerService) AllBalancesFor(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	sums, err := s.ledgerRepo.SumByCounterparty(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum balances for user %s: %w", userID, err)
	}
	balances := make(map[string]decimal.Decimal, len(sums))
	for counterpartyID, balance := range sums {
		if balance.Abs().LessThan(domain.Epsilon) {
			continue
		}
		balances[counterpartyID] = balance
	}
	return balances, nil
}

// SummaryFor splits the user's balances into owed-to and owes lists, each
// sorted by counterparty id for reproducible output, plus totals and net.
func (s *ledgerService) SummaryFor(ctx context.Context, userID string) (*domain.BalanceSummary, error) {
	balances, err := s.AllBalancesFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	counterparties := make([]string, 0, len(balances))
	for counterpartyID := range balances {
		counterparties = append(counterparties, counterpartyID)
	}
	sort.Strings(counterparties)

	summary := &domain.BalanceSummary{
		UserID:          userID,
		TotalOwedToUser: decimal.Zero,
		TotalUserOwes:   decimal.Zero,
		NetBalance:      decimal.Zero,
		OwedToUser:      []domain.CounterpartyAmount{},
		UserOwes:        []domain.CounterpartyAmount{},
	}
	for _, counterpartyID := range counterparties {
		balance := balances[counterpartyID]
		summary.NetBalance = summary.NetBalance.Add(balance)
		if balance.IsPositive() {
			summary.TotalOwedToUser = summary.TotalOwedToUser.Add(balance)
			summary.OwedToUser = append(summary.OwedToUser, domain.CounterpartyAmount{UserID: counterpartyID, Amount: balance})
		} else {
			summary.TotalUserOwes = summary.TotalUserOwes.Add(balance.Abs())
			summary.UserOwes = append(summary.UserOwes, domain.CounterpartyAmount{UserID: counterpartyID, Amount: balance.Abs()})
		}
	}
	return summary, nil
}

// History returns the user's most recent entries, newest first.
func (s *ledgerService) History(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	entries, err := s.ledgerRepo.ListEntriesByOwner(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for user %s: %w", userID, err)
	}
	return entries, nil
}

// BalanceSnapshot materializes the full pairwise balance graph for the
// reconciler. No lock is held; the snapshot may be stale relative to writes
// that land after it is taken.
func (s *ledgerService) BalanceSnapshot(ctx context.Context) (map[string]map[string]decimal.Decimal, error) {
	snapshot, err := s.ledgerRepo.SumAllPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize balance snapshot: %w", err)
	}
	return snapshot, nil
}
