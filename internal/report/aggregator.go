// Package report aggregates transaction history into income/expense
// summaries with category, daily, and account breakdowns.
package report

import (
	"context"
	"sort"
	"time"

	"pocketledger/internal/budget"
	"pocketledger/internal/model"
	"pocketledger/internal/service"
)

const dayFormat = "2006-01-02"

// Aggregator builds reports over transaction history windows.
type Aggregator struct {
	storage service.Storage
}

// NewAggregator creates a report aggregator backed by the given storage.
func NewAggregator(storage service.Storage) *Aggregator {
	return &Aggregator{storage: storage}
}

// Report is a full income/expense report over a date window.
type Report struct {
	StartDate  time.Time           `json:"startDate"`
	EndDate    time.Time           `json:"endDate"`
	Summary    Summary             `json:"summary"`
	Categories []CategoryBreakdown `json:"categories"`
	Daily      []DailyBreakdown    `json:"daily"`
	Accounts   []AccountBreakdown  `json:"accounts"`
}

// Summary totals a report window. AvgDailyExpense averages over days that
// actually had expenses, not calendar days, so sparse months are not diluted.
type Summary struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpense     float64 `json:"totalExpense"`
	NetIncome        float64 `json:"netIncome"`
	TransactionCount int     `json:"transactionCount"`
	AvgDailyExpense  float64 `json:"avgDailyExpense"`
	MaxExpenseDay    string  `json:"maxExpenseDay"`
	MaxExpenseAmount float64 `json:"maxExpenseAmount"`
}

// CategoryBreakdown totals one category within a report window. Percentage
// is of the window's total expense; income rows and expense-free windows
// report 0.
type CategoryBreakdown struct {
	CategoryID   string               `json:"categoryId"`
	CategoryName string               `json:"categoryName"`
	Kind         model.TransactionKind `json:"kind"`
	Amount       float64              `json:"amount"`
	Count        int                  `json:"count"`
	Percentage   float64              `json:"percentage"`
}

// DailyBreakdown totals one day within a report window.
type DailyBreakdown struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// AccountBreakdown totals one account within a report window. Balance is the
// account's current balance, not a window-scoped figure.
type AccountBreakdown struct {
	AccountID   string  `json:"accountId"`
	AccountName string  `json:"accountName"`
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
	Balance     float64 `json:"balance"`
	Count       int     `json:"count"`
}

// Monthly builds a report over one calendar month.
func (a *Aggregator) Monthly(ctx context.Context, year, month int) (*Report, error) {
	start, end := budget.MonthBounds(year, month)
	return a.Range(ctx, start, end)
}

// Yearly builds a report over one calendar year.
func (a *Aggregator) Yearly(ctx context.Context, year int) (*Report, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	return a.Range(ctx, start, end)
}

// Range builds a report over an arbitrary inclusive date window.
func (a *Aggregator) Range(ctx context.Context, start, end time.Time) (*Report, error) {
	transactions, err := a.storage.GetTransactionsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	categoryNames, err := a.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := a.accountBalances(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		StartDate: model.DateOnly(start),
		EndDate:   model.DateOnly(end),
	}
	report.Summary = buildSummary(transactions)
	report.Categories = buildCategoryBreakdowns(transactions, categoryNames)
	report.Daily = buildDailyBreakdowns(transactions)
	report.Accounts = buildAccountBreakdowns(transactions, balances)
	return report, nil
}

func (a *Aggregator) accountBalances(ctx context.Context) (map[string]float64, error) {
	accounts, err := a.storage.GetAccounts(ctx, true)
	if err != nil {
		return nil, err
	}
	balances := make(map[string]float64, len(accounts))
	for _, acc := range accounts {
		balances[acc.ID] = acc.Balance
	}
	return balances, nil
}

func (a *Aggregator) categoryNames(ctx context.Context) (map[string]string, error) {
	categories, err := a.storage.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}

func buildSummary(transactions []model.Transaction) Summary {
	summary := Summary{TransactionCount: len(transactions)}
	expenseByDay := make(map[string]float64)

	for _, txn := range transactions {
		switch txn.Kind {
		case model.KindIncome:
			summary.TotalIncome += txn.Amount
		case model.KindExpense:
			summary.TotalExpense += txn.Amount
			expenseByDay[txn.Date.Format(dayFormat)] += txn.Amount
		}
	}
	summary.NetIncome = summary.TotalIncome - summary.TotalExpense

	days := len(expenseByDay)
	if days < 1 {
		days = 1
	}
	summary.AvgDailyExpense = summary.TotalExpense / float64(days)

	for day, amount := range expenseByDay {
		if amount > summary.MaxExpenseAmount ||
			(amount == summary.MaxExpenseAmount && (summary.MaxExpenseDay == "" || day < summary.MaxExpenseDay)) {
			summary.MaxExpenseDay = day
			summary.MaxExpenseAmount = amount
		}
	}
	return summary
}

func buildCategoryBreakdowns(transactions []model.Transaction, names map[string]string) []CategoryBreakdown {
	type key struct {
		categoryID string
		kind       model.TransactionKind
	}
	byCategory := make(map[key]*CategoryBreakdown)
	var totalExpense float64

	for _, txn := range transactions {
		k := key{txn.CategoryID, txn.Kind}
		entry, ok := byCategory[k]
		if !ok {
			entry = &CategoryBreakdown{
				CategoryID:   txn.CategoryID,
				CategoryName: names[txn.CategoryID],
				Kind:         txn.Kind,
			}
			byCategory[k] = entry
		}
		entry.Amount += txn.Amount
		entry.Count++
		if txn.Kind == model.KindExpense {
			totalExpense += txn.Amount
		}
	}

	breakdowns := make([]CategoryBreakdown, 0, len(byCategory))
	for _, entry := range byCategory {
		if entry.Kind == model.KindExpense && totalExpense > 0 {
			entry.Percentage = entry.Amount / totalExpense * 100
		}
		breakdowns = append(breakdowns, *entry)
	}

	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].Amount != breakdowns[j].Amount {
			return breakdowns[i].Amount > breakdowns[j].Amount
		}
		return breakdowns[i].CategoryID < breakdowns[j].CategoryID
	})
	return breakdowns
}

func buildDailyBreakdowns(transactions []model.Transaction) []DailyBreakdown {
	byDay := make(map[string]*DailyBreakdown)

	for _, txn := range transactions {
		day := txn.Date.Format(dayFormat)
		entry, ok := byDay[day]
		if !ok {
			entry = &DailyBreakdown{Date: day}
			byDay[day] = entry
		}
		switch txn.Kind {
		case model.KindIncome:
			entry.Income += txn.Amount
		case model.KindExpense:
			entry.Expense += txn.Amount
		}
	}

	breakdowns := make([]DailyBreakdown, 0, len(byDay))
	for _, entry := range byDay {
		breakdowns = append(breakdowns, *entry)
	}
	sort.Slice(breakdowns, func(i, j int) bool {
		return breakdowns[i].Date < breakdowns[j].Date
	})
	return breakdowns
}

func buildAccountBreakdowns(transactions []model.Transaction, balances map[string]float64) []AccountBreakdown {
	byAccount := make(map[string]*AccountBreakdown)

	for _, txn := range transactions {
		entry, ok := byAccount[txn.AccountID]
		if !ok {
			entry = &AccountBreakdown{
				AccountID:   txn.AccountID,
				AccountName: txn.AccountName,
				Balance:     balances[txn.AccountID],
			}
			byAccount[txn.AccountID] = entry
		}
		switch txn.Kind {
		case model.KindIncome:
			entry.Income += txn.Amount
		case model.KindExpense:
			entry.Expense += txn.Amount
		}
		entry.Count++
	}

	breakdowns := make([]AccountBreakdown, 0, len(byAccount))
	for _, entry := range byAccount {
		breakdowns = append(breakdowns, *entry)
	}
	sort.Slice(breakdowns, func(i, j int) bool {
		total := func(b AccountBreakdown) float64 { return b.Income + b.Expense }
		if total(breakdowns[i]) != total(breakdowns[j]) {
			return total(breakdowns[i]) > total(breakdowns[j])
		}
		return breakdowns[i].AccountID < breakdowns[j].AccountID
	})
	return breakdowns
}
