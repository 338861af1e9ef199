package budget

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketledger/internal/common"
	"pocketledger/internal/model"
	"pocketledger/internal/storage"
)

func newTestCalculator(t *testing.T) (*Calculator, *storage.SQLiteStorage) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return NewCalculator(store), store
}

func addExpense(t *testing.T, store *storage.SQLiteStorage, categoryID string, amount float64, date time.Time) {
	t.Helper()
	require.NoError(t, store.CreateTransaction(context.Background(), &model.Transaction{
		ID:         uuid.New().String(),
		Kind:       model.KindExpense,
		Amount:     amount,
		CategoryID: categoryID,
		AccountID:  "default",
		Date:       date,
	}))
}

func TestSetBudget(t *testing.T) {
	calc, store := newTestCalculator(t)
	ctx := context.Background()

	t.Run("creates with resolved category name", func(t *testing.T) {
		budget, err := calc.SetBudget(ctx, "1", 500, 2024, 3, 0)
		require.NoError(t, err)
		assert.Equal(t, "Dining", budget.CategoryName)
		assert.Equal(t, model.DefaultAlertThreshold, budget.AlertThreshold)
	})

	t.Run("replaces existing period", func(t *testing.T) {
		_, err := calc.SetBudget(ctx, "1", 900, 2024, 3, 90)
		require.NoError(t, err)

		budgets, err := store.GetMonthlyBudgets(ctx, 2024, 3)
		require.NoError(t, err)
		require.Len(t, budgets, 1)
		assert.InDelta(t, 900, budgets[0].Amount, 1e-9)
		assert.InDelta(t, 90, budgets[0].AlertThreshold, 1e-9)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := calc.SetBudget(ctx, "1", 0, 2024, 3, 0)
		assert.ErrorIs(t, err, common.ErrInvalidOperation)

		_, err = calc.SetBudget(ctx, "1", -10, 2024, 3, 0)
		assert.ErrorIs(t, err, common.ErrInvalidOperation)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := calc.SetBudget(ctx, "99", 100, 2024, 3, 0)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("rejects bad month", func(t *testing.T) {
		_, err := calc.SetBudget(ctx, "1", 100, 2024, 13, 0)
		assert.ErrorIs(t, err, common.ErrInvalidOperation)
	})
}

func TestExecution_StatusBoundaries(t *testing.T) {
	// All in a past month so the whole month counts as elapsed.
	year, month := 2024, 3
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		spent      float64
		wantStatus model.BudgetStatus
	}{
		{"under threshold", 799, model.BudgetStatusNormal},
		{"at threshold", 800, model.BudgetStatusWarning},
		{"just under limit", 999.99, model.BudgetStatusWarning},
		{"at limit", 1000, model.BudgetStatusExceeded},
		{"over limit", 1001, model.BudgetStatusExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, store := newTestCalculator(t)
			ctx := context.Background()

			_, err := calc.SetBudget(ctx, "1", 1000, year, month, 80)
			require.NoError(t, err)
			addExpense(t, store, "1", tt.spent, date)

			executions, err := calc.Execution(ctx, year, month)
			require.NoError(t, err)
			require.Len(t, executions, 1)

			assert.Equal(t, tt.wantStatus, executions[0].Status)
			assert.InDelta(t, tt.spent/1000*100, executions[0].Percentage, 1e-9)
		})
	}
}

func TestExecution_Projection(t *testing.T) {
	calc, store := newTestCalculator(t)
	ctx := context.Background()

	// Pin the clock to March 10 so 10 of 31 days have elapsed.
	calc.now = func() time.Time {
		return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	}

	_, err := calc.SetBudget(ctx, "1", 620, 2024, 3, 80)
	require.NoError(t, err)
	addExpense(t, store, "1", 100, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	executions, err := calc.Execution(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, executions, 1)

	exec := executions[0]
	assert.InDelta(t, 10, exec.DailyAverage, 1e-9)
	assert.InDelta(t, 310, exec.ProjectedSpending, 1e-9)
	assert.Equal(t, 21, exec.DaysRemaining)
	assert.InDelta(t, 520, exec.RemainingAmount, 1e-9)
}

func TestExecution_PastMonthAveragesWholeMonth(t *testing.T) {
	calc, store := newTestCalculator(t)
	ctx := context.Background()

	calc.now = func() time.Time {
		return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	}

	_, err := calc.SetBudget(ctx, "1", 310, 2024, 3, 80)
	require.NoError(t, err)
	addExpense(t, store, "1", 310, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))

	executions, err := calc.Execution(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, executions, 1)

	assert.InDelta(t, 10, executions[0].DailyAverage, 1e-9)
	assert.InDelta(t, 310, executions[0].ProjectedSpending, 1e-9)
	assert.Equal(t, 0, executions[0].DaysRemaining)
}

func TestExecution_OnlyExpensesInPeriodCount(t *testing.T) {
	calc, store := newTestCalculator(t)
	ctx := context.Background()

	_, err := calc.SetBudget(ctx, "1", 1000, 2024, 3, 80)
	require.NoError(t, err)

	addExpense(t, store, "1", 100, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	// Outside the month.
	addExpense(t, store, "1", 500, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	addExpense(t, store, "1", 500, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	// Other category.
	addExpense(t, store, "2", 500, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	// Income in the budget category must not count as spending.
	require.NoError(t, store.CreateTransaction(ctx, &model.Transaction{
		ID: "income1", Kind: model.KindIncome, Amount: 999,
		CategoryID: "1", AccountID: "default",
		Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}))

	executions, err := calc.Execution(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.InDelta(t, 100, executions[0].SpentAmount, 1e-9)
}

func TestMonthlySummaryAndAlerts(t *testing.T) {
	calc, store := newTestCalculator(t)
	ctx := context.Background()

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := calc.SetBudget(ctx, "1", 100, 2024, 3, 80)
	require.NoError(t, err)
	_, err = calc.SetBudget(ctx, "2", 100, 2024, 3, 80)
	require.NoError(t, err)
	_, err = calc.SetBudget(ctx, "3", 100, 2024, 3, 80)
	require.NoError(t, err)

	addExpense(t, store, "1", 150, date) // exceeded
	addExpense(t, store, "2", 85, date)  // warning
	addExpense(t, store, "3", 10, date)  // normal

	summary, err := calc.MonthlySummary(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.BudgetCount)
	assert.InDelta(t, 300, summary.TotalBudget, 1e-9)
	assert.InDelta(t, 245, summary.TotalSpent, 1e-9)
	assert.InDelta(t, 55, summary.TotalRemaining, 1e-9)
	assert.Equal(t, 1, summary.WarningCount)
	assert.Equal(t, 1, summary.ExceededCount)

	alerts, err := calc.Alerts(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, model.BudgetStatusExceeded, alerts[0].Status)
	assert.Equal(t, model.BudgetStatusWarning, alerts[1].Status)
}

func TestExecution_NoBudgets(t *testing.T) {
	calc, _ := newTestCalculator(t)

	executions, err := calc.Execution(context.Background(), 2024, 3)
	require.NoError(t, err)
	assert.Empty(t, executions)
}
