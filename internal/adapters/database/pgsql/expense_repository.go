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

// PgxExpenseRepository persists expenses, their split shares and their
// ledger trace as one transactional unit.
type PgxExpenseRepository struct {
	BaseRepository
}

// NewPgxExpenseRepository creates a new repository for expense data.
func NewPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepositoryFacade
var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

// SaveExpense inserts the expense row, its shares and its ledger entries in
// a single database transaction: the whole event is visible or none of it.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense, shares []domain.SplitShare, entries []domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	expenseQuery := `
		INSERT INTO expenses (expense_id, description, amount, currency_code, payer_id, policy, status, expense_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, expenseQuery,
		expense.ExpenseID,
		expense.Description,
		expense.Amount,
		expense.CurrencyCode,
		expense.PayerID,
		expense.Policy,
		expense.Status,
		expense.ExpenseDate,
		expense.CreatedAt,
		expense.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert expense "+expense.ExpenseID, err)
	}

	shareQuery := `
		INSERT INTO split_shares (expense_id, position, user_id, amount, percentage, share_count)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for i, share := range shares {
		batch.Queue(shareQuery,
			expense.ExpenseID,
			i,
			share.UserID,
			share.Amount,
			share.Percentage,
			share.ShareCount,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert split shares for expense "+expense.ExpenseID, err)
	}

	if err := appendEntriesInTx(ctx, tx, entries); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindExpenseByID retrieves an expense with its shares in original caller
// order.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expenseQuery := `
		SELECT expense_id, description, amount, currency_code, payer_id, policy, status, expense_date, created_at, created_by
		FROM expenses
		WHERE expense_id = $1;
	`
	var expense domain.Expense
	err := r.Pool.QueryRow(ctx, expenseQuery, expenseID).Scan(
		&expense.ExpenseID,
		&expense.Description,
		&expense.Amount,
		&expense.CurrencyCode,
		&expense.PayerID,
		&expense.Policy,
		&expense.Status,
		&expense.ExpenseDate,
		&expense.CreatedAt,
		&expense.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query expense "+expenseID, err)
	}

	shareQuery := `
		SELECT user_id, amount, percentage, share_count
		FROM split_shares
		WHERE expense_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, shareQuery, expenseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query shares for expense "+expenseID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var share domain.SplitShare
		if err := rows.Scan(&share.UserID, &share.Amount, &share.Percentage, &share.ShareCount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan split share row", err)
		}
		expense.Shares = append(expense.Shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read split share rows", err)
	}

	return &expense, nil
}

// ListExpensesByUser retrieves expenses the user paid or participated in,
// newest first. Shares are not loaded for list views.
func (r *PgxExpenseRepository) ListExpensesByUser(ctx context.Context, userID string, limit int) ([]domain.Expense, error) {
	query := `
		SELECT DISTINCT e.expense_id, e.description, e.amount, e.currency_code, e.payer_id, e.policy, e.status, e.expense_date, e.created_at, e.created_by
		FROM expenses e
		LEFT JOIN split_shares s ON s.expense_id = e.expense_id
		WHERE e.payer_id = $1 OR s.user_id = $1
		ORDER BY e.created_at DESC, e.expense_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list expenses for user "+userID, err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var expense domain.Expense
		if err := rows.Scan(
			&expense.ExpenseID,
			&expense.Description,
			&expense.Amount,
			&expense.CurrencyCode,
			&expense.PayerID,
			&expense.Policy,
			&expense.Status,
			&expense.ExpenseDate,
			&expense.CreatedAt,
			&expense.CreatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan expense row", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read expense rows", err)
	}
	return expenses, nil
}

// UpdateExpenseStatus flips the expense status and appends the reversal
// entries in the same transaction.
func (r *PgxExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, entries []domain.LedgerEntry, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `UPDATE expenses SET status = $2, updated_at = $3 WHERE expense_id = $1;`, expenseID, status, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for expense "+expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := appendEntriesInTx(ctx, tx, entries); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
