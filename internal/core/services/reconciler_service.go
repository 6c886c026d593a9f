package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/core/domain"
	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
)

// party is one side of the greedy matching: a user together with the
// outstanding magnitude of their net balance. seq preserves first-seen order
// so that equal magnitudes tie-break deterministically.
type party struct {
	userID string
	amount decimal.Decimal
	seq    int
}

// reconcilerService reduces a pairwise debt graph to a small settlement
// plan. The balance-map methods are pure; only the *All/Suggest convenience
// methods touch the ledger, and those work on an unlocked snapshot.
type reconcilerService struct {
	BaseService
	ledger portssvc.LedgerReaderSvc
}

// NewDebtReconciler creates a new ReconcilerSvc over the given ledger reader.
func NewDebtReconciler(ledger portssvc.LedgerReaderSvc) portssvc.ReconcilerSvc {
	return &reconcilerService{ledger: ledger}
}

// Ensure reconcilerService implements the ReconcilerSvc interface
var _ portssvc.ReconcilerSvc = (*reconcilerService)(nil)

// NetBalances collapses the pairwise graph to one signed net per user.
// Because every entry has a mirrored sibling, the nets always sum to zero.
func (s *reconcilerService) NetBalances(balances map[string]map[string]decimal.Decimal) map[string]decimal.Decimal {
	nets := make(map[string]decimal.Decimal, len(balances))
	for userID, counterpartyBalances := range balances {
		net := nets[userID]
		for _, amount := range counterpartyBalances {
			net = net.Add(amount)
		}
		nets[userID] = net
	}
	return nets
}

// Simplify greedily pairs the largest creditor with the largest debtor until
// one side is exhausted. Each pairing retires at least one party, so the
// loop runs at most creditors+debtors-1 times and emits at most that many
// transfers. The plan is a heuristic, not a proven global minimum, but it is
// fully determined by the snapshot.
func (s *reconcilerService) Simplify(balances map[string]map[string]decimal.Decimal) []domain.Transfer {
	nets := s.NetBalances(balances)

	userIDs := make([]string, 0, len(nets))
	for userID := range nets {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	var creditors, debtors []party
	for _, userID := range userIDs {
		net := nets[userID]
		switch {
		case net.GreaterThan(domain.Epsilon):
			creditors = append(creditors, party{userID: userID, amount: net, seq: len(creditors)})
		case net.LessThan(domain.Epsilon.Neg()):
			debtors = append(debtors, party{userID: userID, amount: net.Abs(), seq: len(debtors)})
		}
	}
	sortByMagnitude(creditors)
	sortByMagnitude(debtors)

	var settlements []domain.Transfer
	bound := len(creditors) + len(debtors)
	if bound > 0 {
		bound--
	}
	for i := 0; i < bound && len(creditors) > 0 && len(debtors) > 0; i++ {
		creditor := creditors[0]
		debtor := debtors[0]

		settleAmount := decimal.Min(creditor.amount, debtor.amount)
		if settleAmount.GreaterThan(domain.Epsilon) {
			settlements = append(settlements, domain.Transfer{
				FromUserID: debtor.userID,
				ToUserID:   creditor.userID,
				Amount:     settleAmount.Round(domain.MinorUnitPlaces),
			})
		}

		creditors = creditors[1:]
		if remaining := creditor.amount.Sub(settleAmount); remaining.GreaterThan(domain.Epsilon) {
			creditors = append(creditors, party{userID: creditor.userID, amount: remaining, seq: creditor.seq})
			sortByMagnitude(creditors)
		}
		debtors = debtors[1:]
		if remaining := debtor.amount.Sub(settleAmount); remaining.GreaterThan(domain.Epsilon) {
			debtors = append(debtors, party{userID: debtor.userID, amount: remaining, seq: debtor.seq})
			sortByMagnitude(debtors)
		}
	}

	return settlements
}

// sortByMagnitude orders parties by outstanding amount descending; equal
// amounts keep their first-seen order.
func sortByMagnitude(parties []party) {
	sort.SliceStable(parties, func(i, j int) bool {
		if parties[i].amount.Equal(parties[j].amount) {
			return parties[i].seq < parties[j].seq
		}
		return parties[i].amount.GreaterThan(parties[j].amount)
	})
}

// SettlementPath returns the single direct transfer needed for fromUserID
// to settle with toUserID, or an empty plan if nothing is owed in that
// direction. It never suggests a counter-payment.
func (s *reconcilerService) SettlementPath(balances map[string]map[string]decimal.Decimal, fromUserID, toUserID string) []domain.Transfer {
	counterpartyBalances, ok := balances[fromUserID]
	if !ok {
		return nil
	}
	direct := counterpartyBalances[toUserID]
	if direct.GreaterThan(domain.Epsilon.Neg()) {
		return nil
	}
	return []domain.Transfer{{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Amount:     direct.Abs().Round(domain.MinorUnitPlaces),
	}}
}

// SimplifyAll runs Simplify over a snapshot of the whole ledger.
func (s *reconcilerService) SimplifyAll(ctx context.Context) ([]domain.Transfer, error) {
	snapshot, err := s.ledger.BalanceSnapshot(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to take balance snapshot for reconciliation")
		return nil, fmt.Errorf("failed to take balance snapshot: %w", err)
	}
	plan := s.Simplify(snapshot)
	s.LogInfo(ctx, "Settlement plan computed",
		slog.Int("user_count", len(snapshot)),
		slog.Int("transfer_count", len(plan)))
	return plan, nil
}

// SuggestSettlement runs SettlementPath over a current snapshot.
func (s *reconcilerService) SuggestSettlement(ctx context.Context, fromUserID, toUserID string) ([]domain.Transfer, error) {
	snapshot, err := s.ledger.BalanceSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take balance snapshot: %w", err)
	}
	return s.SettlementPath(snapshot, fromUserID, toUserID), nil
}
