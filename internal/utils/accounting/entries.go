package accounting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

// BuildExpenseEntries constructs the mirrored ledger pairs for an expense:
// one pair per share whose user is not the payer. The payer's own share nets
// to zero against themself and is never posted.
// This is used in both services and repositories to ensure consistent
// accounting semantics.
func BuildExpenseEntries(expense domain.Expense, shares []domain.SplitShare, now time.Time) ([]domain.LedgerEntry, error) {
	entries := make([]domain.LedgerEntry, 0, 2*len(shares))
	for _, share := range shares {
		if share.UserID == expense.PayerID {
			continue
		}
		if share.Amount.IsNegative() {
			return nil, fmt.Errorf("share amount must not be negative for user %s: %s", share.UserID, share.Amount)
		}
		if share.Amount.IsZero() {
			continue
		}
		payerEntry := domain.LedgerEntry{
			EntryID:        uuid.NewString(),
			OwnerID:        expense.PayerID,
			CounterpartyID: share.UserID,
			Amount:         share.Amount, // Positive: owed TO the payer
			EventID:        expense.ExpenseID,
			Note:           "Expense: " + expense.Description,
			CreatedAt:      now,
		}
		entries = append(entries, payerEntry, payerEntry.Mirror(uuid.NewString()))
	}
	if err := ValidateZeroSum(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// BuildSettlementEntries constructs the mirrored pair for a manual transfer.
// The payer's side is positive: paying reduces what they owe (or builds a
// credit if they overpay).
func BuildSettlementEntries(settlement domain.Settlement, now time.Time) ([]domain.LedgerEntry, error) {
	if settlement.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("settlement amount must be positive: %s", settlement.Amount)
	}
	note := settlement.Note
	if note == "" {
		note = "Settlement"
	}
	payerEntry := domain.LedgerEntry{
		EntryID:        uuid.NewString(),
		OwnerID:        settlement.FromUserID,
		CounterpartyID: settlement.ToUserID,
		Amount:         settlement.Amount,
		EventID:        settlement.SettlementID,
		Note:           note,
		CreatedAt:      now,
	}
	entries := []domain.LedgerEntry{payerEntry, payerEntry.Mirror(uuid.NewString())}
	if err := ValidateZeroSum(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// BuildReversalEntries constructs sign-inverted siblings for every entry of
// a previously posted event, keeping the original event id so the full
// audit trail of the event stays queryable.
func BuildReversalEntries(original []domain.LedgerEntry, now time.Time) []domain.LedgerEntry {
	reversals := make([]domain.LedgerEntry, len(original))
	for i, entry := range original {
		reversals[i] = domain.LedgerEntry{
			EntryID:        uuid.NewString(),
			OwnerID:        entry.OwnerID,
			CounterpartyID: entry.CounterpartyID,
			Amount:         entry.Amount.Neg(),
			EventID:        entry.EventID,
			Note:           "Reversal: " + entry.Note,
			CreatedAt:      now,
		}
	}
	return reversals
}

// ValidateZeroSum checks global conservation for a set of entries about to
// be posted as one event: signed amounts must sum to exactly zero. A failure
// here is a programming error, not a caller mistake; it must surface loudly
// rather than be masked.
func ValidateZeroSum(entries []domain.LedgerEntry) error {
	sum := decimal.Zero
	for _, entry := range entries {
		sum = sum.Add(entry.Amount)
	}
	if !sum.IsZero() {
		return fmt.Errorf("ledger entries do not sum to zero: sum is %s across %d entries", sum.String(), len(entries))
	}
	return nil
}

// ValidateSharesTotal checks that computed shares reconcile exactly to the
// expense total. Like ValidateZeroSum, a failure is an internal invariant
// violation.
func ValidateSharesTotal(total decimal.Decimal, shares []domain.SplitShare) error {
	sum := decimal.Zero
	for _, share := range shares {
		sum = sum.Add(share.Amount)
	}
	if !sum.Equal(total) {
		return fmt.Errorf("split shares sum to %s, expected total %s", sum.String(), total.String())
	}
	return nil
}
