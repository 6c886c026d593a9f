package services

import (
	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

// SplitCalculatorSvc converts a total amount and a split policy into
// per-participant shares that sum exactly to the total. All operations are
// pure; no context is taken because nothing blocks.
type SplitCalculatorSvc interface {
	// Calculate dispatches on input.Policy. Unknown policies are rejected
	// with apperrors.ErrUnknownPolicy, never silently defaulted.
	Calculate(total decimal.Decimal, input domain.SplitInput) ([]domain.SplitShare, error)

	// SplitEqual divides total evenly; the first participants in input
	// order absorb any leftover minor units, one each.
	SplitEqual(total decimal.Decimal, participants []string) ([]domain.SplitShare, error)

	// SplitUnequal accepts exact amounts which must sum to total within
	// one minor unit.
	SplitUnequal(total decimal.Decimal, amounts []domain.UserAmount) ([]domain.SplitShare, error)

	// SplitByPercentage divides total by percentages summing to 100 within
	// 0.01. If allParticipants is non-empty and named percentages sum to
	// less than 100, participants absent from the percentage list evenly
	// split the remainder. The last participant absorbs rounding.
	SplitByPercentage(total decimal.Decimal, percentages []domain.UserPercentage, allParticipants []string) ([]domain.SplitShare, error)

	// SplitByShares divides total proportionally to positive integer share
	// counts. The last participant absorbs rounding.
	SplitByShares(total decimal.Decimal, shares []domain.UserShareCount) ([]domain.SplitShare, error)
}
