package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitkaro/splitkaro/internal/apperrors"
	"github.com/splitkaro/splitkaro/internal/core/domain"
	portsrepo "github.com/splitkaro/splitkaro/internal/core/ports/repositories"
)

// PgxSettlementRepository persists settlements together with their mirrored
// ledger pair.
type PgxSettlementRepository struct {
	BaseRepository
}

// NewPgxSettlementRepository creates a new repository for settlement data.
func NewPgxSettlementRepository(pool *pgxpool.Pool) portsrepo.SettlementRepositoryFacade {
	return &PgxSettlementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSettlementRepository implements portsrepo.SettlementRepositoryFacade
var _ portsrepo.SettlementRepositoryFacade = (*PgxSettlementRepository)(nil)

// SaveSettlement inserts the settlement row and its ledger entries in a
// single database transaction.
func (r *PgxSettlementRepository) SaveSettlement(ctx context.Context, settlement domain.Settlement, entries []domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO settlements (settlement_id, from_user_id, to_user_id, amount, currency_code, note, status, settled_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		settlement.SettlementID,
		settlement.FromUserID,
		settlement.ToUserID,
		settlement.Amount,
		settlement.CurrencyCode,
		settlement.Note,
		settlement.Status,
		settlement.SettledAt,
		settlement.CreatedAt,
		settlement.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert settlement "+settlement.SettlementID, err)
	}

	if err := appendEntriesInTx(ctx, tx, entries); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindSettlementByID retrieves a settlement by id.
func (r *PgxSettlementRepository) FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	query := `
		SELECT settlement_id, from_user_id, to_user_id, amount, currency_code, note, status, settled_at, created_at, created_by
		FROM settlements
		WHERE settlement_id = $1;
	`
	var settlement domain.Settlement
	err := r.Pool.QueryRow(ctx, query, settlementID).Scan(
		&settlement.SettlementID,
		&settlement.FromUserID,
		&settlement.ToUserID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Note,
		&settlement.Status,
		&settlement.SettledAt,
		&settlement.CreatedAt,
		&settlement.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query settlement "+settlementID, err)
	}
	return &settlement, nil
}

// ListSettlementsByUser retrieves settlements where the user is payer or
// recipient, newest first.
func (r *PgxSettlementRepository) ListSettlementsByUser(ctx context.Context, userID string, limit int) ([]domain.Settlement, error) {
	query := `
		SELECT settlement_id, from_user_id, to_user_id, amount, currency_code, note, status, settled_at, created_at, created_by
		FROM settlements
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC, settlement_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list settlements for user "+userID, err)
	}
	defer rows.Close()

	var settlements []domain.Settlement
	for rows.Next() {
		var settlement domain.Settlement
		if err := rows.Scan(
			&settlement.SettlementID,
			&settlement.FromUserID,
			&settlement.ToUserID,
			&settlement.Amount,
			&settlement.CurrencyCode,
			&settlement.Note,
			&settlement.Status,
			&settlement.SettledAt,
			&settlement.CreatedAt,
			&settlement.CreatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan settlement row", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read settlement rows", err)
	}
	return settlements, nil
}

// UpdateSettlementStatus flips the settlement status and appends the
// reversal entries in the same transaction.
func (r *PgxSettlementRepository) UpdateSettlementStatus(ctx context.Context, settlementID string, status domain.ExpenseStatus, entries []domain.LedgerEntry, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `UPDATE settlements SET status = $2, updated_at = $3 WHERE settlement_id = $1;`, settlementID, status, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for settlement "+settlementID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := appendEntriesInTx(ctx, tx, entries); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
