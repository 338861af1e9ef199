package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pocketledger/internal/model"
)

// CreateTransfer inserts a transfer record. The ledger service is
// responsible for the paired balance mutations; callers that need the full
// atomic transfer must go through it.
func (s *SQLiteStorage) CreateTransfer(ctx context.Context, transfer *model.AccountTransfer) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransfer(transfer); err != nil {
		return err
	}
	return createTransfer(ctx, s.db, transfer)
}

func createTransfer(ctx context.Context, q queryable, transfer *model.AccountTransfer) error {
	now := time.Now()
	if transfer.CreatedAt.IsZero() {
		transfer.CreatedAt = now
	}
	transfer.UpdatedAt = now

	_, err := q.ExecContext(ctx, `
		INSERT INTO account_transfers (
			id, from_account_id, to_account_id, amount, fee,
			date, note, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		transfer.ID,
		transfer.FromAccountID,
		transfer.ToAccountID,
		transfer.Amount,
		transfer.Fee,
		model.DateOnly(transfer.Date),
		transfer.Note,
		transfer.CreatedAt,
		transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer %s: %w", transfer.ID, err)
	}
	return nil
}

// GetTransfers retrieves transfer history, newest first. A limit of 0 means
// no limit.
func (s *SQLiteStorage) GetTransfers(ctx context.Context, limit int) ([]model.AccountTransfer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getTransfers(ctx, s.db, limit)
}

func getTransfers(ctx context.Context, q queryable, limit int) ([]model.AccountTransfer, error) {
	query := `
		SELECT id, from_account_id, to_account_id, amount, fee,
		       date, note, created_at, updated_at
		FROM account_transfers
		ORDER BY date DESC, created_at DESC`
	args := []any{}

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransfers(rows)
}

// GetTransfersByAccount retrieves every transfer that touches an account,
// as source or destination, oldest first.
func (s *SQLiteStorage) GetTransfersByAccount(ctx context.Context, accountID string) ([]model.AccountTransfer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}
	return getTransfersByAccount(ctx, s.db, accountID)
}

func getTransfersByAccount(ctx context.Context, q queryable, accountID string) ([]model.AccountTransfer, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, from_account_id, to_account_id, amount, fee,
		       date, note, created_at, updated_at
		FROM account_transfers
		WHERE from_account_id = ? OR to_account_id = ?
		ORDER BY date ASC, created_at ASC
	`, accountID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransfers(rows)
}

// DeleteAllTransfers removes every transfer record.
func (s *SQLiteStorage) DeleteAllTransfers(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteAllTransfers(ctx, s.db)
}

func deleteAllTransfers(ctx context.Context, q queryable) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM account_transfers`); err != nil {
		return fmt.Errorf("failed to delete transfers: %w", err)
	}
	return nil
}

func collectTransfers(rows *sql.Rows) ([]model.AccountTransfer, error) {
	var transfers []model.AccountTransfer
	for rows.Next() {
		var transfer model.AccountTransfer
		var note sql.NullString

		err := rows.Scan(
			&transfer.ID,
			&transfer.FromAccountID,
			&transfer.ToAccountID,
			&transfer.Amount,
			&transfer.Fee,
			&transfer.Date,
			&note,
			&transfer.CreatedAt,
			&transfer.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}

		transfer.Note = note.String
		transfers = append(transfers, transfer)
	}
	return transfers, rows.Err()
}
