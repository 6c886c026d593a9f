package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

// LedgerReader defines read operations over the append-only entry store.
type LedgerReader interface {
	// FindEntriesByEventID retrieves every entry tagged with the given
	// expense or settlement id, in insertion order.
	FindEntriesByEventID(ctx context.Context, eventID string) ([]domain.LedgerEntry, error)

	// SumBetween returns the signed sum of entries owned by ownerID whose
	// counterparty is counterpartyID. Zero if no entries exist.
	SumBetween(ctx context.Context, ownerID, counterpartyID string) (decimal.Decimal, error)

	// SumByCounterparty returns the signed sum of ownerID's entries grouped
	// by counterparty. Counterparties with a zero sum are included; callers
	// apply the epsilon filter.
	SumByCounterparty(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error)

	// ListEntriesByOwner retrieves the most recent entries owned by ownerID,
	// newest first, capped at limit.
	ListEntriesByOwner(ctx context.Context, ownerID string, limit int) ([]domain.LedgerEntry, error)

	// SumAllPairs materializes the whole pairwise balance graph: signed
	// entry sums grouped by (owner, counterparty).
	SumAllPairs(ctx context.Context) (map[string]map[string]decimal.Decimal, error)
}

// LedgerWriter defines the single write operation of the durable store:
// an atomic append of a complete set of entries for one event.
type LedgerWriter interface {
	// AppendEntries persists all entries as one unit; either every entry is
	// visible to subsequent reads or none is.
	AppendEntries(ctx context.Context, entries []domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
