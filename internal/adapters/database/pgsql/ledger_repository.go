package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/apperrors"
	"github.com/splitkaro/splitkaro/internal/core/domain"
	portsrepo "github.com/splitkaro/splitkaro/internal/core/ports/repositories"
)

const insertLedgerEntryQuery = `
	INSERT INTO ledger_entries (entry_id, owner_id, counterparty_id, amount, event_id, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

const selectLedgerEntryColumns = `
	SELECT entry_id, owner_id, counterparty_id, amount, event_id, note, created_at
	FROM ledger_entries
`

// PgxLedgerRepository is the pgx implementation of the append-only entry
// store. Entries are only ever inserted; there is no update or delete path.
type PgxLedgerRepository struct {
	BaseRepository
}

// NewPgxLedgerRepository creates a new repository for ledger entry data.
func NewPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// AppendEntries persists the full entry set of one event inside a single
// database transaction.
func (r *PgxLedgerRepository) AppendEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	if err := appendEntriesInTx(ctx, tx, entries); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// appendEntriesInTx queues all inserts on one batch within the caller's
// transaction; shared with the expense and settlement repositories so every
// event's entries land atomically with their owning row.
func appendEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(insertLedgerEntryQuery,
			entry.EntryID,
			entry.OwnerID,
			entry.CounterpartyID,
			entry.Amount,
			entry.EventID,
			entry.Note,
			entry.CreatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entries", err)
	}
	return nil
}

// FindEntriesByEventID retrieves every entry tagged with eventID in
// insertion order.
func (r *PgxLedgerRepository) FindEntriesByEventID(ctx context.Context, eventID string) ([]domain.LedgerEntry, error) {
	query := selectLedgerEntryColumns + `WHERE event_id = $1 ORDER BY created_at, entry_id;`
	rows, err := r.Pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for event "+eventID, err)
	}
	defer rows.Close()
	return scanLedgerEntries(rows)
}

// SumBetween returns the signed sum of ownerID's entries against
// counterpartyID, zero when no entries exist.
func (r *PgxLedgerRepository) SumBetween(ctx context.Context, ownerID, counterpartyID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE owner_id = $1 AND counterparty_id = $2;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, ownerID, counterpartyID).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum entries between users", err)
	}
	return sum, nil
}

// SumByCounterparty returns ownerID's signed entry sums grouped by
// counterparty.
func (r *PgxLedgerRepository) SumByCounterparty(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT counterparty_id, SUM(amount)
		FROM ledger_entries
		WHERE owner_id = $1
		GROUP BY counterparty_id;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum balances for user "+ownerID, err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var counterpartyID string
		var sum decimal.Decimal
		if err := rows.Scan(&counterpartyID, &sum); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan balance row", err)
		}
		sums[counterpartyID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read balance rows", err)
	}
	return sums, nil
}

// ListEntriesByOwner retrieves ownerID's most recent entries, newest first.
func (r *PgxLedgerRepository) ListEntriesByOwner(ctx context.Context, ownerID string, limit int) ([]domain.LedgerEntry, error) {
	query := selectLedgerEntryColumns + `WHERE owner_id = $1 ORDER BY created_at DESC, entry_id DESC LIMIT $2;`
	rows, err := r.Pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list entries for user "+ownerID, err)
	}
	defer rows.Close()
	return scanLedgerEntries(rows)
}

// SumAllPairs materializes the whole pairwise balance graph.
func (r *PgxLedgerRepository) SumAllPairs(ctx context.Context) (map[string]map[string]decimal.Decimal, error) {
	query := `
		SELECT owner_id, counterparty_id, SUM(amount)
		FROM ledger_entries
		GROUP BY owner_id, counterparty_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum all balance pairs", err)
	}
	defer rows.Close()

	graph := make(map[string]map[string]decimal.Decimal)
	for rows.Next() {
		var ownerID, counterpartyID string
		var sum decimal.Decimal
		if err := rows.Scan(&ownerID, &counterpartyID, &sum); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan balance pair row", err)
		}
		if graph[ownerID] == nil {
			graph[ownerID] = make(map[string]decimal.Decimal)
		}
		graph[ownerID][counterpartyID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read balance pair rows", err)
	}
	return graph, nil
}

func scanLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(
			&entry.EntryID,
			&entry.OwnerID,
			&entry.CounterpartyID,
			&entry.Amount,
			&entry.EventID,
			&entry.Note,
			&entry.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read ledger entry rows", err)
	}
	return entries, nil
}
