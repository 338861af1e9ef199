package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pocketledger/internal/common"
	"pocketledger/internal/model"
)

// CreateAccount inserts a new account record.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}
	return createAccount(ctx, s.db, account)
}

func createAccount(ctx context.Context, q queryable, account *model.Account) error {
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (
			id, name, type, icon, color, description,
			balance, initial_balance, is_active, sort_order,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		account.ID,
		account.Name,
		string(account.Type),
		account.Icon,
		account.Color,
		account.Description,
		account.Balance,
		account.InitialBalance,
		account.IsActive,
		account.SortOrder,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account %s: %w", account.ID, err)
	}

	slog.Debug("created account", "id", account.ID, "name", account.Name)
	return nil
}

// GetAccount retrieves a single account by ID.
func (s *SQLiteStorage) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getAccount(ctx, s.db, id)
}

func getAccount(ctx context.Context, q queryable, id string) (*model.Account, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, type, icon, color, description,
		       balance, initial_balance, is_active, sort_order,
		       created_at, updated_at
		FROM accounts
		WHERE id = ?
	`, id)

	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetAccounts retrieves all accounts ordered by sort order. Inactive
// (soft-deleted) accounts are excluded unless includeInactive is set.
func (s *SQLiteStorage) GetAccounts(ctx context.Context, includeInactive bool) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getAccounts(ctx, s.db, includeInactive)
}

func getAccounts(ctx context.Context, q queryable, includeInactive bool) ([]model.Account, error) {
	query := `
		SELECT id, name, type, icon, color, description,
		       balance, initial_balance, is_active, sort_order,
		       created_at, updated_at
		FROM accounts`
	if !includeInactive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY sort_order, id`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		account, scanErr := scanAccount(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan account: %w", scanErr)
		}
		accounts = append(accounts, *account)
	}

	return accounts, rows.Err()
}

// UpdateAccount overwrites an account's mutable fields.
func (s *SQLiteStorage) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}
	return updateAccount(ctx, s.db, account)
}

func updateAccount(ctx context.Context, q queryable, account *model.Account) error {
	account.UpdatedAt = time.Now()

	result, err := q.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, type = ?, icon = ?, color = ?, description = ?,
		    balance = ?, initial_balance = ?, is_active = ?, sort_order = ?,
		    updated_at = ?
		WHERE id = ?
	`,
		account.Name,
		string(account.Type),
		account.Icon,
		account.Color,
		account.Description,
		account.Balance,
		account.InitialBalance,
		account.IsActive,
		account.SortOrder,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.ID, err)
	}

	return requireRowAffected(result, "account", account.ID)
}

// UpdateAccountBalance sets an account's cached balance.
func (s *SQLiteStorage) UpdateAccountBalance(ctx context.Context, id string, balance float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return updateAccountBalance(ctx, s.db, id, balance)
}

func updateAccountBalance(ctx context.Context, q queryable, id string, balance float64) error {
	result, err := q.ExecContext(ctx, `
		UPDATE accounts
		SET balance = ?, updated_at = ?
		WHERE id = ?
	`, balance, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", id, err)
	}

	return requireRowAffected(result, "account", id)
}

// DeactivateAccount soft-deletes an account. The balance is left untouched
// so historical records stay auditable.
func (s *SQLiteStorage) DeactivateAccount(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deactivateAccount(ctx, s.db, id)
}

func deactivateAccount(ctx context.Context, q queryable, id string) error {
	result, err := q.ExecContext(ctx, `
		UPDATE accounts
		SET is_active = 0, updated_at = ?
		WHERE id = ?
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", id, err)
	}

	return requireRowAffected(result, "account", id)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*model.Account, error) {
	var account model.Account
	var accType string
	var icon, color, description sql.NullString

	err := row.Scan(
		&account.ID,
		&account.Name,
		&accType,
		&icon,
		&color,
		&description,
		&account.Balance,
		&account.InitialBalance,
		&account.IsActive,
		&account.SortOrder,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Type = model.AccountType(accType)
	account.Icon = icon.String
	account.Color = color.String
	account.Description = description.String
	return &account, nil
}

// requireRowAffected converts a zero-row UPDATE into ErrNotFound.
func requireRowAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, common.ErrNotFound)
	}
	return nil
}
