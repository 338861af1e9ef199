package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: accounts, transactions, categories",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					type TEXT NOT NULL,
					icon TEXT,
					color TEXT,
					description TEXT,
					balance REAL NOT NULL DEFAULT 0,
					initial_balance REAL NOT NULL DEFAULT 0,
					is_active BOOLEAN NOT NULL DEFAULT 1,
					sort_order INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_accounts_active ON accounts(is_active)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					kind TEXT NOT NULL,
					amount REAL NOT NULL,
					category_id TEXT NOT NULL,
					account_id TEXT NOT NULL,
					account_name TEXT,
					note TEXT,
					date DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_account ON transactions(account_id)`,
				`CREATE INDEX idx_transactions_kind ON transactions(kind)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					icon TEXT,
					color TEXT,
					kind TEXT NOT NULL
				)`,
				`CREATE INDEX idx_categories_kind ON categories(kind)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add account transfers",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS account_transfers (
					id TEXT PRIMARY KEY,
					from_account_id TEXT NOT NULL,
					to_account_id TEXT NOT NULL,
					amount REAL NOT NULL,
					fee REAL NOT NULL DEFAULT 0,
					date DATETIME NOT NULL,
					note TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transfers_from ON account_transfers(from_account_id)`,
				`CREATE INDEX idx_transfers_to ON account_transfers(to_account_id)`,
				`CREATE INDEX idx_transfers_date ON account_transfers(date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add monthly budgets",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS budgets (
					id TEXT PRIMARY KEY,
					category_id TEXT NOT NULL,
					category_name TEXT NOT NULL,
					amount REAL NOT NULL,
					year INTEGER NOT NULL,
					month INTEGER NOT NULL,
					alert_threshold REAL NOT NULL DEFAULT 80,
					is_active BOOLEAN NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(category_id, year, month)
				)`,
				`CREATE INDEX idx_budgets_period ON budgets(year, month)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     4,
		Description: "Seed default accounts and categories",
		Up: func(tx *sql.Tx) error {
			for _, acc := range DefaultAccounts() {
				if _, err := tx.Exec(`
					INSERT OR IGNORE INTO accounts (id, name, type, icon, color, sort_order, is_active)
					VALUES (?, ?, ?, ?, ?, ?, 1)
				`, acc.ID, acc.Name, string(acc.Type), acc.Icon, acc.Color, acc.SortOrder); err != nil {
					return fmt.Errorf("failed to seed account %s: %w", acc.ID, err)
				}
			}

			for _, cat := range DefaultCategories() {
				if _, err := tx.Exec(`
					INSERT OR IGNORE INTO categories (id, name, icon, color, kind)
					VALUES (?, ?, ?, ?, ?)
				`, cat.ID, cat.Name, cat.Icon, cat.Color, string(cat.Kind)); err != nil {
					return fmt.Errorf("failed to seed category %s: %w", cat.ID, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
