package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"pocketledger/internal/common"
	"pocketledger/internal/model"
)

func testBudget(id, categoryID string, year, month int, amount float64) *model.Budget {
	return &model.Budget{
		ID:             id,
		CategoryID:     categoryID,
		CategoryName:   "Category " + categoryID,
		Amount:         amount,
		Year:           year,
		Month:          month,
		AlertThreshold: model.DefaultAlertThreshold,
		IsActive:       true,
	}
}

func TestSQLiteStorage_SaveBudget_UpsertsByPeriod(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveBudget(ctx, testBudget("b1", "1", 2024, 3, 500)); err != nil {
		t.Fatalf("Failed to save budget: %v", err)
	}

	// Second save for the same period must update in place, not duplicate.
	if err := store.SaveBudget(ctx, testBudget("b2", "1", 2024, 3, 800)); err != nil {
		t.Fatalf("Failed to re-save budget: %v", err)
	}

	budgets, err := store.GetMonthlyBudgets(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("Failed to get monthly budgets: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("Expected 1 budget for the period, got %d", len(budgets))
	}
	if budgets[0].Amount != 800 {
		t.Errorf("Expected updated amount 800, got %v", budgets[0].Amount)
	}
	if budgets[0].ID != "b1" {
		t.Errorf("Upsert should keep the original ID, got %s", budgets[0].ID)
	}
}

func TestSQLiteStorage_GetBudgetByPeriod(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveBudget(ctx, testBudget("b1", "2", 2024, 6, 300)); err != nil {
		t.Fatalf("Failed to save budget: %v", err)
	}

	tests := []struct {
		name       string
		categoryID string
		year       int
		month      int
		wantNil    bool
	}{
		{"existing period", "2", 2024, 6, false},
		{"wrong month", "2", 2024, 7, true},
		{"wrong category", "3", 2024, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget, err := store.GetBudgetByPeriod(ctx, tt.categoryID, tt.year, tt.month)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if (budget == nil) != tt.wantNil {
				t.Errorf("Expected nil=%v, got %+v", tt.wantNil, budget)
			}
		})
	}
}

func TestSQLiteStorage_SaveBudget_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name   string
		budget *model.Budget
	}{
		{"nil budget", nil},
		{"month zero", testBudget("b1", "1", 2024, 0, 100)},
		{"month thirteen", testBudget("b2", "1", 2024, 13, 100)},
		{"empty category", testBudget("b3", "", 2024, 3, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.SaveBudget(ctx, tt.budget); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestSQLiteStorage_DeleteBudget(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveBudget(ctx, testBudget("b1", "1", 2024, 3, 500)); err != nil {
		t.Fatalf("Failed to save budget: %v", err)
	}
	if err := store.DeleteBudget(ctx, "b1"); err != nil {
		t.Fatalf("Failed to delete budget: %v", err)
	}

	_, err := store.GetBudget(ctx, "b1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := store.DeleteBudget(ctx, "b1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSQLiteStorage_Transfers(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	transfers := []*model.AccountTransfer{
		{ID: "tr1", FromAccountID: "default", ToAccountID: "bank", Amount: 100, Fee: 1, Date: date},
		{ID: "tr2", FromAccountID: "bank", ToAccountID: "ewallet", Amount: 50, Date: date.AddDate(0, 0, 1)},
	}
	for _, tr := range transfers {
		if err := store.CreateTransfer(ctx, tr); err != nil {
			t.Fatalf("Failed to create transfer %s: %v", tr.ID, err)
		}
	}

	t.Run("history is newest first", func(t *testing.T) {
		got, err := store.GetTransfers(ctx, 0)
		if err != nil {
			t.Fatalf("Failed to get transfers: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 transfers, got %d", len(got))
		}
		if got[0].ID != "tr2" {
			t.Errorf("Expected tr2 first, got %s", got[0].ID)
		}
	})

	t.Run("by account matches source and destination", func(t *testing.T) {
		got, err := store.GetTransfersByAccount(ctx, "bank")
		if err != nil {
			t.Fatalf("Failed to get transfers by account: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 transfers touching bank, got %d", len(got))
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		got, err := store.GetTransfers(ctx, 1)
		if err != nil {
			t.Fatalf("Failed to get transfers: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("Expected 1 transfer with limit, got %d", len(got))
		}
	})

	t.Run("delete all", func(t *testing.T) {
		if err := store.DeleteAllTransfers(ctx); err != nil {
			t.Fatalf("Failed to delete transfers: %v", err)
		}
		got, err := store.GetTransfers(ctx, 0)
		if err != nil {
			t.Fatalf("Failed to get transfers: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected no transfers after delete, got %d", len(got))
		}
	})
}
