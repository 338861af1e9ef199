// Package storage provides the data persistence layer for the ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pocketledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidAccount   = errors.New("invalid account")
	ErrInvalidTxn       = errors.New("invalid transaction")
	ErrInvalidTransfer  = errors.New("invalid transfer")
	ErrInvalidBudget    = errors.New("invalid budget")
	ErrInvalidCategory  = errors.New("invalid category")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDateRange ensures end does not precede start.
func validateDateRange(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, end, start)
	}
	return nil
}

// validateAccount validates an account record.
func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if account.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAccount)
	}
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAccount)
	}
	if !model.ValidAccountType(account.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAccount, account.Type)
	}
	return nil
}

// validateTransaction validates a transaction record.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTxn)
	}
	if !model.ValidTransactionKind(txn.Kind) {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTxn, txn.Kind)
	}
	if txn.Amount < 0 {
		return fmt.Errorf("%w: negative amount", ErrInvalidTxn)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTxn)
	}
	if txn.AccountID == "" {
		return fmt.Errorf("%w: missing account ID", ErrInvalidTxn)
	}
	return nil
}

// validateTransfer validates a transfer record.
func validateTransfer(transfer *model.AccountTransfer) error {
	if transfer == nil {
		return fmt.Errorf("%w: transfer", ErrNilParameter)
	}
	if transfer.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransfer)
	}
	if transfer.FromAccountID == "" || transfer.ToAccountID == "" {
		return fmt.Errorf("%w: missing account ID", ErrInvalidTransfer)
	}
	if transfer.Amount < 0 || transfer.Fee < 0 {
		return fmt.Errorf("%w: negative amount or fee", ErrInvalidTransfer)
	}
	return nil
}

// validateBudget validates a budget record.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if budget.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidBudget)
	}
	if budget.CategoryID == "" {
		return fmt.Errorf("%w: missing category ID", ErrInvalidBudget)
	}
	if budget.Month < 1 || budget.Month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidBudget, budget.Month)
	}
	return nil
}

// validateCategory validates a category record.
func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if category.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCategory)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	if category.Kind != model.CategoryKindIncome && category.Kind != model.CategoryKindExpense {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidCategory, category.Kind)
	}
	return nil
}
