package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/apperrors"
	"github.com/splitkaro/splitkaro/internal/core/domain"
	portsrepo "github.com/splitkaro/splitkaro/internal/core/ports/repositories"
	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
	"github.com/splitkaro/splitkaro/internal/dto"
	"github.com/splitkaro/splitkaro/internal/utils/accounting"
)

// expenseService orchestrates the record-expense flow: validate the
// structured command, compute shares under the requested policy, then
// persist the expense row, its shares and its mirrored ledger trace as one
// unit.
type expenseService struct {
	BaseService
	expenseRepo     portsrepo.ExpenseRepositoryFacade
	splitter        portssvc.SplitCalculatorSvc
	ledger          portssvc.LedgerReaderSvc
	defaultCurrency string
}

// NewExpenseService creates a new ExpenseSvcFacade. defaultCurrency is
// applied when a command omits the currency code.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, splitter portssvc.SplitCalculatorSvc, ledger portssvc.LedgerReaderSvc, defaultCurrency string) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo:     expenseRepo,
		splitter:        splitter,
		ledger:          ledger,
		defaultCurrency: defaultCurrency,
	}
}

// Ensure expenseService implements the ExpenseSvcFacade interface
var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense validates the command, splits the total and posts the
// result. The repository persists everything in one database transaction so
// no partially posted expense is ever visible.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}
	total := req.Amount.Round(domain.MinorUnitPlaces)

	shares, err := s.splitter.Calculate(total, req.ToSplitInput())
	if err != nil {
		s.LogWarn(ctx, "Split calculation rejected",
			slog.String("policy", string(req.Policy)),
			slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	expenseDate := now
	if req.ExpenseDate != nil {
		expenseDate = req.ExpenseDate.UTC()
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = s.defaultCurrency
	}

	expense := domain.Expense{
		ExpenseID:    uuid.NewString(),
		Description:  req.Description,
		Amount:       total,
		CurrencyCode: currency,
		PayerID:      req.PayerID,
		Policy:       req.Policy,
		Status:       domain.Posted,
		ExpenseDate:  expenseDate,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: creatorUserID,
		},
	}

	entries, err := accounting.BuildExpenseEntries(expense, shares, now)
	if err != nil {
		s.LogError(ctx, err, "Mirrored pair construction failed", slog.String("expense_id", expense.ExpenseID))
		return nil, fmt.Errorf("internal ledger invariant violated: %w", err)
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense, shares, entries); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("expense_id", expense.ExpenseID))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.LogInfo(ctx, "Expense recorded",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("payer_id", expense.PayerID),
		slog.String("policy", string(expense.Policy)),
		slog.Int("share_count", len(shares)),
		slog.Int("entry_count", len(entries)))

	expense.Shares = shares
	return &expense, nil
}

// GetExpenseByID retrieves an expense with its split shares.
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	return expense, nil
}

// ListExpensesForUser retrieves a user's recent expenses.
func (s *expenseService) ListExpensesForUser(ctx context.Context, userID string, limit int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	expenses, err := s.expenseRepo.ListExpensesByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses for user %s: %w", userID, err)
	}
	return expenses, nil
}

// ReverseExpense undoes a posted expense. Offsetting entries are appended
// and the expense flips to REVERSED in the same transaction; the original
// entries and the expense row itself are never deleted. An expense whose
// payer was the only participant has no ledger trace, so only the status
// changes.
func (s *expenseService) ReverseExpense(ctx context.Context, expenseID string, userID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	if expense.Status != domain.Posted {
		return nil, fmt.Errorf("%w: expense status is %s, expected POSTED", apperrors.ErrConflict, expense.Status)
	}

	now := time.Now().UTC()
	var reversals []domain.LedgerEntry
	original, err := s.ledger.EntriesForEvent(ctx, expenseID)
	switch {
	case err == nil:
		reversals = accounting.BuildReversalEntries(original, now)
		if verr := accounting.ValidateZeroSum(reversals); verr != nil {
			return nil, fmt.Errorf("internal ledger invariant violated: %w", verr)
		}
	case errors.Is(err, apperrors.ErrNothingToReverse):
		s.LogDebug(ctx, "Expense has no ledger trace, reversing status only", slog.String("expense_id", expenseID))
	default:
		return nil, err
	}

	if err := s.expenseRepo.UpdateExpenseStatus(ctx, expenseID, domain.Reversed, reversals, now); err != nil {
		s.LogError(ctx, err, "Failed to reverse expense", slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to reverse expense: %w", err)
	}

	s.LogInfo(ctx, "Expense reversed",
		slog.String("expense_id", expenseID),
		slog.String("requested_by", userID),
		slog.Int("entry_count", len(reversals)))

	expense.Status = domain.Reversed
	return expense, nil
}
