package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pocketledger/internal/common"
	"pocketledger/internal/model"
)

// SaveBudget inserts a budget, or updates it in place when one already
// exists for the same (category, year, month) period. The unique index on
// that triple is what enforces the at-most-one invariant.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}
	return saveBudget(ctx, s.db, budget)
}

func saveBudget(ctx context.Context, q queryable, budget *model.Budget) error {
	now := time.Now()
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = now
	}
	budget.UpdatedAt = now

	// Upsert keyed on the period, not the ID: setting a budget for a period
	// that already has one updates it rather than duplicating.
	_, err := q.ExecContext(ctx, `
		INSERT INTO budgets (
			id, category_id, category_name, amount, year, month,
			alert_threshold, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(category_id, year, month) DO UPDATE SET
			category_name = excluded.category_name,
			amount = excluded.amount,
			alert_threshold = excluded.alert_threshold,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`,
		budget.ID,
		budget.CategoryID,
		budget.CategoryName,
		budget.Amount,
		budget.Year,
		budget.Month,
		budget.AlertThreshold,
		budget.IsActive,
		budget.CreatedAt,
		budget.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save budget for category %s: %w", budget.CategoryID, err)
	}
	return nil
}

// GetBudget retrieves a single budget by ID.
func (s *SQLiteStorage) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getBudget(ctx, s.db, id)
}

func getBudget(ctx context.Context, q queryable, id string) (*model.Budget, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, category_id, category_name, amount, year, month,
		       alert_threshold, is_active, created_at, updated_at
		FROM budgets
		WHERE id = ?
	`, id)

	budget, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}

// GetBudgetByPeriod retrieves the budget for a (category, year, month)
// triple, or nil when none exists.
func (s *SQLiteStorage) GetBudgetByPeriod(ctx context.Context, categoryID string, year, month int) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return nil, err
	}
	return getBudgetByPeriod(ctx, s.db, categoryID, year, month)
}

func getBudgetByPeriod(ctx context.Context, q queryable, categoryID string, year, month int) (*model.Budget, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, category_id, category_name, amount, year, month,
		       alert_threshold, is_active, created_at, updated_at
		FROM budgets
		WHERE category_id = ? AND year = ? AND month = ?
	`, categoryID, year, month)

	budget, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, nil // no budget for this period
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}

// GetMonthlyBudgets retrieves all active budgets for a (year, month).
func (s *SQLiteStorage) GetMonthlyBudgets(ctx context.Context, year, month int) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getMonthlyBudgets(ctx, s.db, year, month)
}

func getMonthlyBudgets(ctx context.Context, q queryable, year, month int) ([]model.Budget, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, category_id, category_name, amount, year, month,
		       alert_threshold, is_active, created_at, updated_at
		FROM budgets
		WHERE year = ? AND month = ? AND is_active = 1
		ORDER BY category_name
	`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		budget, scanErr := scanBudget(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", scanErr)
		}
		budgets = append(budgets, *budget)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes a budget record.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteBudget(ctx, s.db, id)
}

func deleteBudget(ctx context.Context, q queryable, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", id, err)
	}
	return requireRowAffected(result, "budget", id)
}

func scanBudget(row scanner) (*model.Budget, error) {
	var budget model.Budget

	err := row.Scan(
		&budget.ID,
		&budget.CategoryID,
		&budget.CategoryName,
		&budget.Amount,
		&budget.Year,
		&budget.Month,
		&budget.AlertThreshold,
		&budget.IsActive,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &budget, nil
}
