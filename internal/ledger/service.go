// Package ledger implements the double-entry-lite bookkeeping rules of the
// application: every recorded transaction and transfer keeps the cached
// account balances consistent with the event history.
package ledger

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

// Service coordinates balance-affecting operations on top of storage. All
// multi-row mutations run inside a storage transaction so balances and event
// records never diverge.
type Service struct {
	storage service.Storage
}

// NewService creates a ledger service backed by the given storage.
func NewService(storage service.Storage) *Service {
	return &Service{storage: storage}
}

// TransactionParams describes a transaction to record.
type TransactionParams struct {
	Date       time.Time
	Kind       model.TransactionKind
	CategoryID string
	AccountID  string
	Note       string
	Amount     float64
}

// TransferParams describes a transfer between two accounts.
type TransferParams struct {
	Date          time.Time
	FromAccountID string
	ToAccountID   string
	Note          string
	Amount        float64
	Fee           float64
}

// AccountParams describes a new account.
type AccountParams struct {
	Name           string
	Type           model.AccountType
	Icon           string
	Color          string
	Description    string
	InitialBalance float64
	SortOrder      int
}

// AccountsSummary aggregates the current position across all active accounts.
// Credit card balances count as liabilities rather than assets.
type AccountsSummary struct {
	TotalAssets      float64 `json:"totalAssets"`
	TotalLiabilities float64 `json:"totalLiabilities"`
	NetAssets        float64 `json:"netAssets"`
	AccountCount     int     `json:"accountCount"`
}

// RecordTransaction persists a transaction and applies its delta to the
// owning account's balance, atomically.
func (s *Service) RecordTransaction(ctx context.Context, params TransactionParams) (*model.Transaction, error) {
	if !model.ValidTransactionKind(params.Kind) {
		return nil, fmt.Errorf("transaction kind %q: %w", params.Kind, common.ErrInvalidOperation)
	}
	if params.Amount <= 0 {
		return nil, fmt.Errorf("transaction amount must be positive: %w", common.ErrInvalidOperation)
	}

	account, err := s.storage.GetAccount(ctx, params.AccountID)
	if err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		ID:          uuid.New().String(),
		Kind:        params.Kind,
		Amount:      params.Amount,
		CategoryID:  params.CategoryID,
		AccountID:   account.ID,
		AccountName: account.Name,
		Note:        params.Note,
		Date:        model.DateOnly(params.Date),
	}

	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	if err := tx.UpdateAccountBalance(ctx, account.ID, account.Balance+txn.BalanceDelta()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Debug("recorded transaction",
		"id", txn.ID,
		"kind", txn.Kind,
		"amount", txn.Amount,
		"account", txn.AccountID,
	)
	return txn, nil
}

// ReverseTransaction deletes a transaction and undoes its balance effect.
// When the owning account no longer exists the record is removed and the
// balance step is skipped.
func (s *Service) ReverseTransaction(ctx context.Context, id string) error {
	txn, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	account, err := tx.GetAccount(ctx, txn.AccountID)
	switch {
	case common.IsNotFound(err):
		slog.Warn("reversing transaction for missing account, skipping balance update",
			"transaction", id, "account", txn.AccountID)
	case err != nil:
		return err
	default:
		if err := tx.UpdateAccountBalance(ctx, account.ID, account.Balance-txn.BalanceDelta()); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reversal: %w", err)
	}

	slog.Debug("reversed transaction", "id", id, "account", txn.AccountID)
	return nil
}

// Transfer moves funds between two accounts and records the transfer event,
// atomically. The source account is debited amount plus fee; the destination
// is credited the amount only.
func (s *Service) Transfer(ctx context.Context, params TransferParams) (*model.AccountTransfer, error) {
	if params.FromAccountID == params.ToAccountID {
		return nil, fmt.Errorf("cannot transfer an account to itself: %w", common.ErrInvalidOperation)
	}
	if params.Amount <= 0 {
		return nil, fmt.Errorf("transfer amount must be positive: %w", common.ErrInvalidOperation)
	}
	if params.Fee < 0 {
		return nil, fmt.Errorf("transfer fee cannot be negative: %w", common.ErrInvalidOperation)
	}

	from, err := s.storage.GetAccount(ctx, params.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.storage.GetAccount(ctx, params.ToAccountID)
	if err != nil {
		return nil, err
	}

	transfer := &model.AccountTransfer{
		ID:            uuid.New().String(),
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        params.Amount,
		Fee:           params.Fee,
		Date:          model.DateOnly(params.Date),
		Note:          params.Note,
	}

	debit := transfer.TotalDebit()
	if from.Balance < debit {
		return nil, fmt.Errorf("account %s has %.2f, needs %.2f: %w",
			from.ID, from.Balance, debit, common.ErrInsufficientBalance)
	}

	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.CreateTransfer(ctx, transfer); err != nil {
		return nil, err
	}
	if err := tx.UpdateAccountBalance(ctx, from.ID, from.Balance-debit); err != nil {
		return nil, err
	}
	if err := tx.UpdateAccountBalance(ctx, to.ID, to.Balance+transfer.Amount); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transfer: %w", err)
	}

	slog.Debug("transferred funds",
		"id", transfer.ID,
		"from", transfer.FromAccountID,
		"to", transfer.ToAccountID,
		"amount", transfer.Amount,
		"fee", transfer.Fee,
	)
	return transfer, nil
}

// RecalculateBalance rebuilds an account's cached balance from its initial
// balance plus the full transaction and transfer history. Running it twice
// yields the same result.
func (s *Service) RecalculateBalance(ctx context.Context, accountID string) (float64, error) {
	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}

	transactions, err := s.storage.GetTransactionsByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	transfers, err := s.storage.GetTransfersByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}

	balance := account.InitialBalance
	for _, txn := range transactions {
		balance += txn.BalanceDelta()
	}
	for _, transfer := range transfers {
		if transfer.FromAccountID == accountID {
			balance -= transfer.TotalDebit()
		}
		if transfer.ToAccountID == accountID {
			balance += transfer.Amount
		}
	}

	if err := s.storage.UpdateAccountBalance(ctx, accountID, balance); err != nil {
		return 0, err
	}

	slog.Debug("recalculated balance", "account", accountID, "balance", balance)
	return balance, nil
}

// RecalculateAllBalances rebuilds the cached balance of every account,
// including inactive ones. The progress callback, if non-nil, is invoked once
// per account.
func (s *Service) RecalculateAllBalances(ctx context.Context, progress func()) error {
	accounts, err := s.storage.GetAccounts(ctx, true)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if _, err := s.RecalculateBalance(ctx, account.ID); err != nil {
			return fmt.Errorf("failed to recalculate account %s: %w", account.ID, err)
		}
		if progress != nil {
			progress()
		}
	}
	return nil
}

// SetInitialBalance changes an account's opening balance and rebuilds the
// cached balance so history stays consistent.
func (s *Service) SetInitialBalance(ctx context.Context, accountID string, amount float64) error {
	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}

	account.InitialBalance = amount
	if err := s.storage.UpdateAccount(ctx, account); err != nil {
		return err
	}

	_, err = s.RecalculateBalance(ctx, accountID)
	return err
}

// CreateAccount creates a new account with its balance opened at the initial
// balance.
func (s *Service) CreateAccount(ctx context.Context, params AccountParams) (*model.Account, error) {
	if !model.ValidAccountType(params.Type) {
		return nil, fmt.Errorf("account type %q: %w", params.Type, common.ErrInvalidOperation)
	}

	account := &model.Account{
		ID:             uuid.New().String(),
		Name:           params.Name,
		Type:           params.Type,
		Icon:           params.Icon,
		Color:          params.Color,
		Description:    params.Description,
		Balance:        params.InitialBalance,
		InitialBalance: params.InitialBalance,
		SortOrder:      params.SortOrder,
		IsActive:       true,
	}

	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	slog.Info("created account", "id", account.ID, "name", account.Name, "type", account.Type)
	return account, nil
}

// DeleteAccount deactivates an account. Accounts still referenced by
// transactions cannot be deleted; reverse or reassign the transactions first.
func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	if _, err := s.storage.GetAccount(ctx, accountID); err != nil {
		return err
	}

	count, err := s.storage.CountTransactionsByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("account has %d transactions: %w", count, common.ErrConflict)
	}

	if err := s.storage.DeactivateAccount(ctx, accountID); err != nil {
		return err
	}

	slog.Info("deactivated account", "id", accountID)
	return nil
}

// Summary computes the asset position across all active accounts.
func (s *Service) Summary(ctx context.Context) (*AccountsSummary, error) {
	accounts, err := s.storage.GetAccounts(ctx, false)
	if err != nil {
		return nil, err
	}

	summary := &AccountsSummary{AccountCount: len(accounts)}
	for _, account := range accounts {
		if account.IsLiability() {
			summary.TotalLiabilities += account.Balance
		} else {
			summary.TotalAssets += account.Balance
		}
	}
	summary.NetAssets = summary.TotalAssets - summary.TotalLiabilities
	return summary, nil
}

// ClearAllData removes every transaction and transfer and resets account
// balances back to their initial balances, atomically.
func (s *Service) ClearAllData(ctx context.Context) error {
	accounts, err := s.storage.GetAccounts(ctx, true)
	if err != nil {
		return err
	}

	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.DeleteAllTransactions(ctx); err != nil {
		return err
	}
	if err := tx.DeleteAllTransfers(ctx); err != nil {
		return err
	}
	for _, account := range accounts {
		if err := tx.UpdateAccountBalance(ctx, account.ID, account.InitialBalance); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit data clear: %w", err)
	}

	slog.Info("cleared all ledger data", "accounts", len(accounts))
	return nil
}
