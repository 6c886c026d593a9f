package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/apperrors"
	"github.com/splitkaro/splitkaro/internal/core/domain"
	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
	"github.com/splitkaro/splitkaro/internal/utils/accounting"
)

var hundred = decimal.NewFromInt(100)

// splitCalculator deterministically converts a total amount and a split
// policy into per-participant shares that sum exactly to the total. It is
// pure and holds no state.
type splitCalculator struct{}

// NewSplitCalculator creates a new SplitCalculatorSvc.
func NewSplitCalculator() portssvc.SplitCalculatorSvc {
	return &splitCalculator{}
}

// Ensure splitCalculator implements the SplitCalculatorSvc interface
var _ portssvc.SplitCalculatorSvc = (*splitCalculator)(nil)

// Calculate dispatches on the policy carried by input. Policies outside the
// closed set are rejected, never silently defaulted.
func (s *splitCalculator) Calculate(total decimal.Decimal, input domain.SplitInput) ([]domain.SplitShare, error) {
	switch input.Policy {
	case domain.SplitEqual:
		return s.SplitEqual(total, input.Participants)
	case domain.SplitUnequal:
		return s.SplitUnequal(total, input.Amounts)
	case domain.SplitPercentage:
		return s.SplitByPercentage(total, input.Percentages, input.Participants)
	case domain.SplitShares:
		return s.SplitByShares(total, input.Shares)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownPolicy, input.Policy)
	}
}

// SplitEqual divides total evenly among participants. Rounding leftovers are
// distributed one minor unit at a time to the first participants in input
// order, so the result is fully determined by the caller's ordering.
func (s *splitCalculator) SplitEqual(total decimal.Decimal, participants []string) ([]domain.SplitShare, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", apperrors.ErrValidation)
	}

	n := decimal.NewFromInt(int64(len(participants)))
	base := total.DivRound(n, domain.MinorUnitPlaces)
	// Exact multiple of one minor unit; may be negative when base rounded up.
	remainder := total.Sub(base.Mul(n))
	cents := remainder.Mul(hundred).IntPart()

	equalPct := hundred.DivRound(n, domain.MinorUnitPlaces)
	shares := make([]domain.SplitShare, len(participants))
	for i, userID := range participants {
		amount := base
		switch {
		case int64(i) < cents:
			amount = base.Add(domain.Epsilon)
		case int64(i) < -cents:
			amount = base.Sub(domain.Epsilon)
		}
		pct := equalPct
		shares[i] = domain.SplitShare{UserID: userID, Amount: amount, Percentage: &pct}
	}

	if err := accounting.ValidateSharesTotal(total, shares); err != nil {
		return nil, fmt.Errorf("internal split invariant violated: %w", err)
	}
	return shares, nil
}

// SplitUnequal accepts exact per-participant amounts. They must reconcile to
// the total within one minor unit; any sub-minor-unit slack left after
// rounding is absorbed by the last participant so the shares sum exactly.
func (s *splitCalculator) SplitUnequal(total decimal.Decimal, amounts []domain.UserAmount) ([]domain.SplitShare, error) {
	if len(amounts) == 0 {
		return nil, fmt.Errorf("%w: at least one participant amount is required", apperrors.ErrValidation)
	}

	sum := decimal.Zero
	for _, a := range amounts {
		if a.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: amount for user %s must not be negative", apperrors.ErrValidation, a.UserID)
		}
		sum = sum.Add(a.Amount)
	}
	if sum.Sub(total).Abs().GreaterThan(domain.Epsilon) {
		return nil, fmt.Errorf("%w: split amounts total %s, expense total %s",
			apperrors.ErrAmountMismatch, sum.String(), total.String())
	}

	shares := make([]domain.SplitShare, len(amounts))
	roundedSum := decimal.Zero
	for i, a := range amounts {
		amount := a.Amount.Round(domain.MinorUnitPlaces)
		roundedSum = roundedSum.Add(amount)
		shares[i] = domain.SplitShare{UserID: a.UserID, Amount: amount}
	}
	if slack := total.Sub(roundedSum); !slack.IsZero() {
		last := len(shares) - 1
		shares[last].Amount = shares[last].Amount.Add(slack)
	}

	for i := range shares {
		if total.IsPositive() {
			pct := shares[i].Amount.Div(total).Mul(hundred).Round(domain.MinorUnitPlaces)
			shares[i].Percentage = &pct
		}
	}

	if err := accounting.ValidateSharesTotal(total, shares); err != nil {
		return nil, fmt.Errorf("internal split invariant violated: %w", err)
	}
	return shares, nil
}

// SplitByPercentage divides total according to named percentages. If
// allParticipants is supplied and the named percentages sum to less than
// 100, participants absent from the percentage list evenly split the
// remainder before the 100% check is applied. The last participant gets
// total minus the sum of all earlier shares, absorbing rounding.
func (s *splitCalculator) SplitByPercentage(total decimal.Decimal, percentages []domain.UserPercentage, allParticipants []string) ([]domain.SplitShare, error) {
	if len(percentages) == 0 && len(allParticipants) == 0 {
		return nil, fmt.Errorf("%w: at least one participant percentage is required", apperrors.ErrValidation)
	}

	named := make(map[string]bool, len(percentages))
	pctSum := decimal.Zero
	for _, p := range percentages {
		if p.Percentage.IsNegative() {
			return nil, fmt.Errorf("%w: percentage for user %s must not be negative", apperrors.ErrValidation, p.UserID)
		}
		named[p.UserID] = true
		pctSum = pctSum.Add(p.Percentage)
	}

	working := append([]domain.UserPercentage(nil), percentages...)
	if len(allParticipants) > 0 && pctSum.LessThan(hundred.Sub(domain.Epsilon)) {
		var remaining []string
		for _, userID := range allParticipants {
			if !named[userID] {
				remaining = append(remaining, userID)
			}
		}
		if len(remaining) > 0 {
			each := hundred.Sub(pctSum).Div(decimal.NewFromInt(int64(len(remaining))))
			for _, userID := range remaining {
				working = append(working, domain.UserPercentage{UserID: userID, Percentage: each})
			}
			pctSum = decimal.Zero
			for _, p := range working {
				pctSum = pctSum.Add(p.Percentage)
			}
		}
	}

	if len(working) == 0 {
		return nil, fmt.Errorf("%w: at least one participant percentage is required", apperrors.ErrValidation)
	}
	if pctSum.Sub(hundred).Abs().GreaterThan(domain.Epsilon) {
		return nil, fmt.Errorf("%w: percentages total %s, expected 100",
			apperrors.ErrAmountMismatch, pctSum.String())
	}

	shares := make([]domain.SplitShare, len(working))
	running := decimal.Zero
	for i, p := range working {
		var amount decimal.Decimal
		if i == len(working)-1 {
			amount = total.Sub(running)
		} else {
			amount = total.Mul(p.Percentage).Div(hundred).Round(domain.MinorUnitPlaces)
			running = running.Add(amount)
		}
		pct := p.Percentage.Round(domain.MinorUnitPlaces)
		shares[i] = domain.SplitShare{UserID: p.UserID, Amount: amount, Percentage: &pct}
	}

	if err := accounting.ValidateSharesTotal(total, shares); err != nil {
		return nil, fmt.Errorf("internal split invariant violated: %w", err)
	}
	return shares, nil
}

// SplitByShares divides total proportionally to positive integer share
// weights. The last participant absorbs rounding, as with percentages.
func (s *splitCalculator) SplitByShares(total decimal.Decimal, shareCounts []domain.UserShareCount) ([]domain.SplitShare, error) {
	if len(shareCounts) == 0 {
		return nil, fmt.Errorf("%w: at least one participant share is required", apperrors.ErrValidation)
	}

	var totalShares int64
	for _, sc := range shareCounts {
		if sc.Shares <= 0 {
			return nil, fmt.Errorf("%w: share count for user %s must be a positive integer", apperrors.ErrValidation, sc.UserID)
		}
		totalShares += sc.Shares
	}
	if totalShares <= 0 {
		return nil, fmt.Errorf("%w: total shares must be greater than 0", apperrors.ErrValidation)
	}

	totalSharesDec := decimal.NewFromInt(totalShares)
	shareValue := total.Div(totalSharesDec)

	shares := make([]domain.SplitShare, len(shareCounts))
	running := decimal.Zero
	for i, sc := range shareCounts {
		var amount decimal.Decimal
		if i == len(shareCounts)-1 {
			amount = total.Sub(running)
		} else {
			amount = shareValue.Mul(decimal.NewFromInt(sc.Shares)).Round(domain.MinorUnitPlaces)
			running = running.Add(amount)
		}
		count := sc.Shares
		pct := decimal.NewFromInt(sc.Shares).Mul(hundred).DivRound(totalSharesDec, domain.MinorUnitPlaces)
		shares[i] = domain.SplitShare{UserID: sc.UserID, Amount: amount, Percentage: &pct, ShareCount: &count}
	}

	if err := accounting.ValidateSharesTotal(total, shares); err != nil {
		return nil, fmt.Errorf("internal split invariant violated: %w", err)
	}
	return shares, nil
}
