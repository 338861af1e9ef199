package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pocketledger/internal/common"
	"pocketledger/internal/model"
	"pocketledger/internal/service"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testAccount(id string) *model.Account {
	return &model.Account{
		ID:       id,
		Name:     "Account " + id,
		Type:     model.AccountTypeCash,
		IsActive: true,
	}
}

func testTransaction(id, accountID string, kind model.TransactionKind, amount float64, date time.Time) *model.Transaction {
	return &model.Transaction{
		ID:         id,
		Kind:       kind,
		Amount:     amount,
		CategoryID: "1",
		AccountID:  accountID,
		Date:       date,
	}
}

func TestSQLiteStorage_Migrate_SeedsDefaults(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	accounts, err := store.GetAccounts(ctx, false)
	if err != nil {
		t.Fatalf("Failed to get accounts: %v", err)
	}
	if len(accounts) != 3 {
		t.Errorf("Expected 3 seeded accounts, got %d", len(accounts))
	}

	// The legacy-import target account must exist.
	def, err := store.GetAccount(ctx, "default")
	if err != nil {
		t.Fatalf("Failed to get default account: %v", err)
	}
	if def.Balance != 0 || def.InitialBalance != 0 {
		t.Errorf("Seeded account should start at zero, got balance=%v initial=%v", def.Balance, def.InitialBalance)
	}

	categories, err := store.GetCategories(ctx)
	if err != nil {
		t.Fatalf("Failed to get categories: %v", err)
	}
	if len(categories) != 8 {
		t.Errorf("Expected 8 seeded categories, got %d", len(categories))
	}
}

func TestSQLiteStorage_AccountLifecycle(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	acc := testAccount("acc1")
	acc.InitialBalance = 100
	acc.Balance = 100

	if err := store.CreateAccount(ctx, acc); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	got, err := store.GetAccount(ctx, "acc1")
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if got.Balance != 100 || got.InitialBalance != 100 {
		t.Errorf("Expected balance 100/100, got %v/%v", got.Balance, got.InitialBalance)
	}

	if err := store.UpdateAccountBalance(ctx, "acc1", 250); err != nil {
		t.Fatalf("Failed to update balance: %v", err)
	}
	got, err = store.GetAccount(ctx, "acc1")
	if err != nil {
		t.Fatalf("Failed to re-get account: %v", err)
	}
	if got.Balance != 250 {
		t.Errorf("Expected balance 250, got %v", got.Balance)
	}

	if err := store.DeactivateAccount(ctx, "acc1"); err != nil {
		t.Fatalf("Failed to deactivate account: %v", err)
	}

	active, err := store.GetAccounts(ctx, false)
	if err != nil {
		t.Fatalf("Failed to get active accounts: %v", err)
	}
	for _, a := range active {
		if a.ID == "acc1" {
			t.Error("Deactivated account still listed as active")
		}
	}

	// Soft delete preserves the record and its balance.
	got, err = store.GetAccount(ctx, "acc1")
	if err != nil {
		t.Fatalf("Soft-deleted account should still resolve: %v", err)
	}
	if got.Balance != 250 {
		t.Errorf("Soft delete must not touch balance, got %v", got.Balance)
	}
}

func TestSQLiteStorage_GetAccount_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetAccount(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_UpdateAccountBalance_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.UpdateAccountBalance(context.Background(), "missing", 10)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_TxRollback(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin tx: %v", err)
	}

	if err := tx.CreateAccount(ctx, testAccount("rollback-me")); err != nil {
		t.Fatalf("Failed to create account in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}

	_, err = store.GetAccount(ctx, "rollback-me")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Rolled-back account should not exist, got %v", err)
	}
}

func TestSQLiteStorage_TxCommit(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin tx: %v", err)
	}

	if err := tx.CreateAccount(ctx, testAccount("keep-me")); err != nil {
		t.Fatalf("Failed to create account in tx: %v", err)
	}
	if err := tx.UpdateAccountBalance(ctx, "keep-me", 42); err != nil {
		t.Fatalf("Failed to update balance in tx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	got, err := store.GetAccount(ctx, "keep-me")
	if err != nil {
		t.Fatalf("Committed account should exist: %v", err)
	}
	if got.Balance != 42 {
		t.Errorf("Expected committed balance 42, got %v", got.Balance)
	}
}

func TestSQLiteStorage_TransactionQueries(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.CreateAccount(ctx, testAccount("acc1")); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		txn := testTransaction(fmt.Sprintf("txn%d", i), "acc1", model.KindExpense, float64(i+1)*10, base.AddDate(0, 0, i))
		if err := store.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("Failed to create transaction: %v", err)
		}
	}

	t.Run("date range is inclusive on both ends", func(t *testing.T) {
		txns, err := store.GetTransactionsByDateRange(ctx,
			time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("Failed to query range: %v", err)
		}
		if len(txns) != 3 {
			t.Errorf("Expected 3 transactions in range, got %d", len(txns))
		}
	})

	t.Run("account query returns all rows", func(t *testing.T) {
		txns, err := store.GetTransactionsByAccount(ctx, "acc1")
		if err != nil {
			t.Fatalf("Failed to query by account: %v", err)
		}
		if len(txns) != 5 {
			t.Errorf("Expected 5 transactions, got %d", len(txns))
		}
	})

	t.Run("count by account", func(t *testing.T) {
		count, err := store.CountTransactionsByAccount(ctx, "acc1")
		if err != nil {
			t.Fatalf("Failed to count: %v", err)
		}
		if count != 5 {
			t.Errorf("Expected count 5, got %d", count)
		}
	})

	t.Run("filter with limit returns newest first", func(t *testing.T) {
		txns, err := store.GetTransactions(ctx, service.TransactionFilter{Limit: 2})
		if err != nil {
			t.Fatalf("Failed to query with filter: %v", err)
		}
		if len(txns) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(txns))
		}
		if !txns[0].Date.After(txns[1].Date) {
			t.Errorf("Expected newest first, got %v then %v", txns[0].Date, txns[1].Date)
		}
	})

	t.Run("delete removes the row", func(t *testing.T) {
		if err := store.DeleteTransaction(ctx, "txn0"); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		_, err := store.GetTransaction(ctx, "txn0")
		if !errors.Is(err, common.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})
}
