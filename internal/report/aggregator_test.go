package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketledger/internal/model"
	"pocketledger/internal/storage"
)

func newTestAggregator(t *testing.T) (*Aggregator, *storage.SQLiteStorage) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return NewAggregator(store), store
}

func addTxn(t *testing.T, store *storage.SQLiteStorage, kind model.TransactionKind, amount float64, categoryID, accountID string, date time.Time) {
	t.Helper()
	require.NoError(t, store.CreateTransaction(context.Background(), &model.Transaction{
		ID:          uuid.New().String(),
		Kind:        kind,
		Amount:      amount,
		CategoryID:  categoryID,
		AccountID:   accountID,
		AccountName: "Account " + accountID,
		Date:        date,
	}))
}

func TestMonthly_Summary(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	addTxn(t, store, model.KindIncome, 3000, "6", "default", day(1))
	addTxn(t, store, model.KindExpense, 100, "1", "default", day(5))
	addTxn(t, store, model.KindExpense, 200, "1", "default", day(5))
	addTxn(t, store, model.KindExpense, 60, "3", "bank", day(20))
	// Outside the month, must not count.
	addTxn(t, store, model.KindExpense, 999, "1", "default", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	report, err := agg.Monthly(ctx, 2024, 3)
	require.NoError(t, err)

	s := report.Summary
	assert.InDelta(t, 3000, s.TotalIncome, 1e-9)
	assert.InDelta(t, 360, s.TotalExpense, 1e-9)
	assert.InDelta(t, 2640, s.NetIncome, 1e-9)
	assert.Equal(t, 4, s.TransactionCount)

	// Two days had expenses: 300 on the 5th, 60 on the 20th.
	assert.InDelta(t, 180, s.AvgDailyExpense, 1e-9)
	assert.Equal(t, "2024-03-05", s.MaxExpenseDay)
	assert.InDelta(t, 300, s.MaxExpenseAmount, 1e-9)
}

func TestMonthly_CategoryBreakdown(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	addTxn(t, store, model.KindExpense, 300, "1", "default", day)
	addTxn(t, store, model.KindExpense, 100, "3", "default", day)
	addTxn(t, store, model.KindIncome, 500, "6", "default", day)

	report, err := agg.Monthly(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, report.Categories, 3)

	// Sorted by amount descending. Percentages are shares of the window's
	// total expense, so the income row stays at 0.
	assert.Equal(t, "6", report.Categories[0].CategoryID)
	assert.Equal(t, "Salary", report.Categories[0].CategoryName)
	assert.Zero(t, report.Categories[0].Percentage)

	assert.Equal(t, "1", report.Categories[1].CategoryID)
	assert.InDelta(t, 75, report.Categories[1].Percentage, 1e-9)

	assert.Equal(t, "3", report.Categories[2].CategoryID)
	assert.InDelta(t, 25, report.Categories[2].Percentage, 1e-9)
}

func TestMonthly_CategoryBreakdown_NoExpenses(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	addTxn(t, store, model.KindIncome, 500, "6", "default", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	report, err := agg.Monthly(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, report.Categories, 1)
	assert.Zero(t, report.Categories[0].Percentage)
	assert.InDelta(t, 500, report.Categories[0].Amount, 1e-9)
}

func TestMonthly_DailyAndAccountBreakdowns(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	addTxn(t, store, model.KindExpense, 50, "1", "default", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	addTxn(t, store, model.KindIncome, 80, "6", "default", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	addTxn(t, store, model.KindExpense, 30, "1", "bank", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.UpdateAccountBalance(ctx, "default", 30))

	report, err := agg.Monthly(ctx, 2024, 3)
	require.NoError(t, err)

	require.Len(t, report.Daily, 2)
	assert.Equal(t, "2024-03-02", report.Daily[0].Date)
	assert.InDelta(t, 80, report.Daily[0].Income, 1e-9)
	assert.InDelta(t, 50, report.Daily[0].Expense, 1e-9)
	assert.Equal(t, "2024-03-09", report.Daily[1].Date)

	require.Len(t, report.Accounts, 2)
	assert.Equal(t, "default", report.Accounts[0].AccountID)
	assert.Equal(t, 2, report.Accounts[0].Count)
	assert.InDelta(t, 30, report.Accounts[0].Balance, 1e-9)
	assert.Equal(t, "bank", report.Accounts[1].AccountID)
	assert.InDelta(t, 30, report.Accounts[1].Expense, 1e-9)
}

func TestYearly_CoversWholeYear(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	addTxn(t, store, model.KindExpense, 10, "1", "default", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	addTxn(t, store, model.KindExpense, 20, "1", "default", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	addTxn(t, store, model.KindExpense, 40, "1", "default", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	report, err := agg.Yearly(ctx, 2024)
	require.NoError(t, err)
	assert.InDelta(t, 30, report.Summary.TotalExpense, 1e-9)
	assert.Equal(t, 2, report.Summary.TransactionCount)
}

func TestRange_Empty(t *testing.T) {
	agg, _ := newTestAggregator(t)

	report, err := agg.Range(context.Background(),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Zero(t, report.Summary.TotalIncome)
	assert.Zero(t, report.Summary.TotalExpense)
	assert.Zero(t, report.Summary.AvgDailyExpense)
	assert.Empty(t, report.Summary.MaxExpenseDay)
	assert.Empty(t, report.Categories)
	assert.Empty(t, report.Daily)
	assert.Empty(t, report.Accounts)
}
