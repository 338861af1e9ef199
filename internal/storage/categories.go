package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"pocketledger/internal/common"
	"pocketledger/internal/model"
)

// GetCategories returns all categories ordered by ID.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategories(ctx, s.db)
}

func getCategories(ctx context.Context, q queryable) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, icon, color, kind
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan category: %w", scanErr)
		}
		categories = append(categories, *cat)
	}
	return categories, rows.Err()
}

// GetCategory retrieves a single category by ID.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getCategory(ctx, s.db, id)
}

func getCategory(ctx context.Context, q queryable, id string) (*model.Category, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, icon, color, kind
		FROM categories
		WHERE id = ?
	`, id)

	cat, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return cat, nil
}

// CreateCategory inserts a new category.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return createCategory(ctx, s.db, category)
}

func createCategory(ctx context.Context, q queryable, category *model.Category) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO categories (id, name, icon, color, kind)
		VALUES (?, ?, ?, ?, ?)
	`, category.ID, category.Name, category.Icon, category.Color, string(category.Kind))
	if err != nil {
		return fmt.Errorf("failed to insert category %s: %w", category.ID, err)
	}

	slog.Debug("created category", "id", category.ID, "name", category.Name)
	return nil
}

// UpdateCategory overwrites a category's fields.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return updateCategory(ctx, s.db, category)
}

func updateCategory(ctx context.Context, q queryable, category *model.Category) error {
	result, err := q.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, icon = ?, color = ?, kind = ?
		WHERE id = ?
	`, category.Name, category.Icon, category.Color, string(category.Kind), category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category %s: %w", category.ID, err)
	}
	return requireRowAffected(result, "category", category.ID)
}

// DeleteCategory removes a category record.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteCategory(ctx, s.db, id)
}

func deleteCategory(ctx context.Context, q queryable, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return requireRowAffected(result, "category", id)
}

// ResetCategories restores the seeded default category set, discarding all
// user edits.
func (s *SQLiteStorage) ResetCategories(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return resetCategories(ctx, s.db)
}

func resetCategories(ctx context.Context, q queryable) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}

	for _, cat := range DefaultCategories() {
		if err := createCategory(ctx, q, &cat); err != nil {
			return err
		}
	}

	slog.Info("reset categories to defaults")
	return nil
}

func scanCategory(row scanner) (*model.Category, error) {
	var cat model.Category
	var icon, color sql.NullString
	var kind string

	err := row.Scan(&cat.ID, &cat.Name, &icon, &color, &kind)
	if err != nil {
		return nil, err
	}

	cat.Icon = icon.String
	cat.Color = color.String
	cat.Kind = model.CategoryKind(kind)
	return &cat, nil
}
