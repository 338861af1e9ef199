package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pocketledger/internal/common"
	"pocketledger/internal/model"
	"pocketledger/internal/service"
)

// CreateTransaction inserts a new transaction record. Balance maintenance is
// the ledger service's job; this only writes the row.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return createTransaction(ctx, s.db, txn)
}

func createTransaction(ctx context.Context, q queryable, txn *model.Transaction) error {
	now := time.Now()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now

	_, err := q.ExecContext(ctx, `
		INSERT INTO transactions (
			id, kind, amount, category_id, account_id, account_name,
			note, date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		txn.ID,
		string(txn.Kind),
		txn.Amount,
		txn.CategoryID,
		txn.AccountID,
		txn.AccountName,
		txn.Note,
		model.DateOnly(txn.Date),
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}
	return nil
}

// GetTransaction retrieves a single transaction by ID.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getTransaction(ctx, s.db, id)
}

func getTransaction(ctx context.Context, q queryable, id string) (*model.Transaction, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, kind, amount, category_id, account_id, account_name,
		       note, date, created_at, updated_at
		FROM transactions
		WHERE id = ?
	`, id)

	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetTransactions retrieves transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getTransactions(ctx, s.db, filter)
}

func getTransactions(ctx context.Context, q queryable, filter service.TransactionFilter) ([]model.Transaction, error) {
	query := `
		SELECT id, kind, amount, category_id, account_id, account_name,
		       note, date, created_at, updated_at
		FROM transactions
		WHERE 1=1`
	args := []any{}

	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, model.DateOnly(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, model.DateOnly(*filter.EndDate))
	}
	if filter.AccountID != "" {
		query += ` AND account_id = ?`
		args = append(args, filter.AccountID)
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}

	query += ` ORDER BY date DESC, created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransactions(rows)
}

// GetTransactionsByDateRange retrieves all transactions whose date falls in
// [start, end], both inclusive, ordered oldest first.
func (s *SQLiteStorage) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}
	return getTransactionsByDateRange(ctx, s.db, start, end)
}

func getTransactionsByDateRange(ctx context.Context, q queryable, start, end time.Time) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, kind, amount, category_id, account_id, account_name,
		       note, date, created_at, updated_at
		FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC
	`, model.DateOnly(start), model.DateOnly(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransactions(rows)
}

// GetTransactionsByAccount retrieves all transactions owned by an account.
func (s *SQLiteStorage) GetTransactionsByAccount(ctx context.Context, accountID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}
	return getTransactionsByAccount(ctx, s.db, accountID)
}

func getTransactionsByAccount(ctx context.Context, q queryable, accountID string) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, kind, amount, category_id, account_id, account_name,
		       note, date, created_at, updated_at
		FROM transactions
		WHERE account_id = ?
		ORDER BY date ASC, created_at ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransactions(rows)
}

// CountTransactionsByAccount returns the number of transactions that
// reference an account. Used to guard account deletion.
func (s *SQLiteStorage) CountTransactionsByAccount(ctx context.Context, accountID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return 0, err
	}
	return countTransactionsByAccount(ctx, s.db, accountID)
}

func countTransactionsByAccount(ctx context.Context, q queryable, accountID string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions WHERE account_id = ?
	`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// DeleteTransaction removes a transaction record.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteTransaction(ctx, s.db, id)
}

func deleteTransaction(ctx context.Context, q queryable, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	return requireRowAffected(result, "transaction", id)
}

// DeleteAllTransactions removes every transaction record.
func (s *SQLiteStorage) DeleteAllTransactions(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteAllTransactions(ctx, s.db)
}

func deleteAllTransactions(ctx context.Context, q queryable) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var txn model.Transaction
	var kind string
	var accountName, note sql.NullString

	err := row.Scan(
		&txn.ID,
		&kind,
		&txn.Amount,
		&txn.CategoryID,
		&txn.AccountID,
		&accountName,
		&note,
		&txn.Date,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Kind = model.TransactionKind(kind)
	txn.AccountName = accountName.String
	txn.Note = note.String
	return &txn, nil
}

func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}
