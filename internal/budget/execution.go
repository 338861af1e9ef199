// Package budget computes monthly budget execution: how much of each
// category budget has been spent, projected month-end spending, and alert
// states against per-budget thresholds.
package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pocketledger/internal/common"
	"pocketledger/internal/model"
	"pocketledger/internal/service"
)

// Calculator evaluates budgets against recorded spending. The clock is a
// field so tests can pin "today" when checking projections.
type Calculator struct {
	storage service.Storage
	now     func() time.Time
}

// NewCalculator creates a budget calculator backed by the given storage.
func NewCalculator(storage service.Storage) *Calculator {
	return &Calculator{storage: storage, now: time.Now}
}

// Summary aggregates execution across all budgets of one month.
type Summary struct {
	TotalBudget    float64 `json:"totalBudget"`
	TotalSpent     float64 `json:"totalSpent"`
	TotalRemaining float64 `json:"totalRemaining"`
	Percentage     float64 `json:"percentage"`
	BudgetCount    int     `json:"budgetCount"`
	WarningCount   int     `json:"warningCount"`
	ExceededCount  int     `json:"exceededCount"`
}

// SetBudget creates or replaces the budget for a (category, year, month)
// period. A non-positive amount is rejected; an alert threshold of zero or
// less falls back to the default.
func (c *Calculator) SetBudget(ctx context.Context, categoryID string, amount float64, year, month int, alertThreshold float64) (*model.Budget, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("budget amount must be positive: %w", common.ErrInvalidOperation)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range: %w", month, common.ErrInvalidOperation)
	}

	category, err := c.storage.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	budget := &model.Budget{
		ID:             uuid.New().String(),
		CategoryID:     category.ID,
		CategoryName:   category.Name,
		Amount:         amount,
		Year:           year,
		Month:          month,
		AlertThreshold: alertThreshold,
		IsActive:       true,
	}
	if budget.AlertThreshold <= 0 {
		budget.AlertThreshold = model.DefaultAlertThreshold
	}

	if err := c.storage.SaveBudget(ctx, budget); err != nil {
		return nil, err
	}

	slog.Info("set budget",
		"category", budget.CategoryID,
		"amount", budget.Amount,
		"period", fmt.Sprintf("%04d-%02d", year, month),
	)
	return budget, nil
}

// RemoveBudget deletes a budget by ID.
func (c *Calculator) RemoveBudget(ctx context.Context, id string) error {
	return c.storage.DeleteBudget(ctx, id)
}

// Execution evaluates every active budget of a month against its recorded
// expense spending.
func (c *Calculator) Execution(ctx context.Context, year, month int) ([]model.BudgetExecution, error) {
	budgets, err := c.storage.GetMonthlyBudgets(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, nil
	}

	spent, err := c.spentByCategory(ctx, year, month)
	if err != nil {
		return nil, err
	}

	daysInMonth, currentDay := c.monthProgress(year, month)

	executions := make([]model.BudgetExecution, 0, len(budgets))
	for _, budget := range budgets {
		spentAmount := spent[budget.CategoryID]

		var percentage float64
		if budget.Amount > 0 {
			percentage = spentAmount / budget.Amount * 100
		}

		dailyAverage := spentAmount / float64(currentDay)

		executions = append(executions, model.BudgetExecution{
			BudgetID:          budget.ID,
			CategoryID:        budget.CategoryID,
			CategoryName:      budget.CategoryName,
			Status:            model.ExecutionStatus(percentage, budget.AlertThreshold),
			BudgetAmount:      budget.Amount,
			SpentAmount:       spentAmount,
			RemainingAmount:   budget.Amount - spentAmount,
			Percentage:        percentage,
			DailyAverage:      dailyAverage,
			ProjectedSpending: dailyAverage * float64(daysInMonth),
			DaysRemaining:     daysInMonth - currentDay,
		})
	}
	return executions, nil
}

// MonthlySummary totals execution across all budgets of a month.
func (c *Calculator) MonthlySummary(ctx context.Context, year, month int) (*Summary, error) {
	executions, err := c.Execution(ctx, year, month)
	if err != nil {
		return nil, err
	}

	summary := &Summary{BudgetCount: len(executions)}
	for _, exec := range executions {
		summary.TotalBudget += exec.BudgetAmount
		summary.TotalSpent += exec.SpentAmount

		switch exec.Status {
		case model.BudgetStatusWarning:
			summary.WarningCount++
		case model.BudgetStatusExceeded:
			summary.ExceededCount++
		}
	}
	summary.TotalRemaining = summary.TotalBudget - summary.TotalSpent
	if summary.TotalBudget > 0 {
		summary.Percentage = summary.TotalSpent / summary.TotalBudget * 100
	}
	return summary, nil
}

// Alerts returns the executions that have crossed their alert threshold,
// exceeded budgets first.
func (c *Calculator) Alerts(ctx context.Context, year, month int) ([]model.BudgetExecution, error) {
	executions, err := c.Execution(ctx, year, month)
	if err != nil {
		return nil, err
	}

	var alerts []model.BudgetExecution
	for _, exec := range executions {
		if exec.Status == model.BudgetStatusExceeded {
			alerts = append(alerts, exec)
		}
	}
	for _, exec := range executions {
		if exec.Status == model.BudgetStatusWarning {
			alerts = append(alerts, exec)
		}
	}
	return alerts, nil
}

// spentByCategory sums expense transactions per category over one month.
func (c *Calculator) spentByCategory(ctx context.Context, year, month int) (map[string]float64, error) {
	start, end := MonthBounds(year, month)
	transactions, err := c.storage.GetTransactionsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	spent := make(map[string]float64)
	for _, txn := range transactions {
		if txn.Kind == model.KindExpense {
			spent[txn.CategoryID] += txn.Amount
		}
	}
	return spent, nil
}

// monthProgress returns the month length and the day to average spending
// over. For the current month that is today's day; for any other month the
// whole month counts.
func (c *Calculator) monthProgress(year, month int) (daysInMonth, currentDay int) {
	daysInMonth = time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	now := c.now()
	if now.Year() == year && int(now.Month()) == month {
		currentDay = now.Day()
	} else {
		currentDay = daysInMonth
	}
	return daysInMonth, currentDay
}

// MonthBounds returns the first and last day of a month, at midnight UTC.
func MonthBounds(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}
