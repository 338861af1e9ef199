// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"pocketledger/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	AccountID string
	Kind      model.TransactionKind
	Limit     int
}

// Storage defines the contract for the persistence layer. All balance
// mutation goes through the ledger service; storage just reads and writes
// records.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	GetAccounts(ctx context.Context, includeInactive bool) ([]model.Account, error)
	UpdateAccount(ctx context.Context, account *model.Account) error
	UpdateAccountBalance(ctx context.Context, id string, balance float64) error
	DeactivateAccount(ctx context.Context, id string) error

	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	GetTransactionsByAccount(ctx context.Context, accountID string) ([]model.Transaction, error)
	CountTransactionsByAccount(ctx context.Context, accountID string) (int, error)
	DeleteTransaction(ctx context.Context, id string) error
	DeleteAllTransactions(ctx context.Context) error

	// Transfer operations
	CreateTransfer(ctx context.Context, transfer *model.AccountTransfer) error
	GetTransfers(ctx context.Context, limit int) ([]model.AccountTransfer, error)
	GetTransfersByAccount(ctx context.Context, accountID string) ([]model.AccountTransfer, error)
	DeleteAllTransfers(ctx context.Context) error

	// Budget operations
	SaveBudget(ctx context.Context, budget *model.Budget) error
	GetBudget(ctx context.Context, id string) (*model.Budget, error)
	GetBudgetByPeriod(ctx context.Context, categoryID string, year, month int) (*model.Budget, error)
	GetMonthlyBudgets(ctx context.Context, year, month int) ([]model.Budget, error)
	DeleteBudget(ctx context.Context, id string) error

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ResetCategories(ctx context.Context) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx represents a storage transaction. Every Storage method invoked through
// a Tx sees and produces uncommitted state until Commit.
type Tx interface {
	Commit() error
	Rollback() error
	Storage
}
