package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

// ReconcilerSvc reduces a pairwise debt graph to a small set of settling
// transfers. The balance-map methods are pure and deterministic: identical
// snapshots produce identical plans in identical order.
type ReconcilerSvc interface {
	// NetBalances collapses the pairwise graph to one signed net per user.
	NetBalances(balances map[string]map[string]decimal.Decimal) map[string]decimal.Decimal

	// Simplify produces a settlement plan of at most creditors+debtors-1
	// transfers that drives every net balance to within one minor unit of
	// zero when applied.
	Simplify(balances map[string]map[string]decimal.Decimal) []domain.Transfer

	// SettlementPath returns the single direct transfer from fromUserID to
	// toUserID if the former owes the latter, otherwise an empty plan.
	SettlementPath(balances map[string]map[string]decimal.Decimal, fromUserID, toUserID string) []domain.Transfer

	// SimplifyAll runs Simplify over a snapshot of the whole ledger. The
	// snapshot is not locked; the plan is advisory and may be stale.
	SimplifyAll(ctx context.Context) ([]domain.Transfer, error)

	// SuggestSettlement runs SettlementPath over a current snapshot.
	SuggestSettlement(ctx context.Context, fromUserID, toUserID string) ([]domain.Transfer, error)
}
