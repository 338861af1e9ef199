// Package archive implements JSON export and import of the full ledger
// data set. The wire format is versioned; older exports are migrated on
// import, newer ones are rejected.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"pocketledger/internal/common"
	"pocketledger/internal/ledger"
	"pocketledger/internal/model"
	"pocketledger/internal/service"
)

// SchemaVersion is the export format written by this build. Version 1
// predates multi-account support and transfers.
const SchemaVersion = 2

// Document is the serialized form of a full data export.
type Document struct {
	SchemaVersion int               `json:"schemaVersion"`
	ExportedAt    time.Time         `json:"exportedAt"`
	Accounts      []accountRecord   `json:"accounts"`
	Categories    []categoryRecord  `json:"categories"`
	Transactions  []txnRecord       `json:"transactions"`
	Transfers     []transferRecord  `json:"transfers"`
}

type accountRecord struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Icon           string  `json:"icon,omitempty"`
	Color          string  `json:"color,omitempty"`
	Description    string  `json:"description,omitempty"`
	InitialBalance float64 `json:"initialBalance"`
	SortOrder      int     `json:"sortOrder"`
	IsActive       bool    `json:"isActive"`
}

type categoryRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
	Kind  string `json:"kind"`
}

type txnRecord struct {
	ID         string    `json:"id"`
	Kind       string    `json:"type"`
	Amount     float64   `json:"amount"`
	CategoryID string    `json:"categoryId"`
	AccountID  string    `json:"accountId,omitempty"`
	Note       string    `json:"note,omitempty"`
	Date       time.Time `json:"date"`
}

type transferRecord struct {
	ID            string    `json:"id"`
	FromAccountID string    `json:"fromAccountId"`
	ToAccountID   string    `json:"toAccountId"`
	Amount        float64   `json:"amount"`
	Fee           float64   `json:"fee,omitempty"`
	Note          string    `json:"note,omitempty"`
	Date          time.Time `json:"date"`
}

// Archiver exports and imports the full data set.
type Archiver struct {
	storage service.Storage
	ledger  *ledger.Service
}

// NewArchiver creates an archiver backed by the given storage and ledger
// service. The ledger service rebuilds balances after an import.
func NewArchiver(storage service.Storage, ledgerSvc *ledger.Service) *Archiver {
	return &Archiver{storage: storage, ledger: ledgerSvc}
}

// Export snapshots the entire data set, inactive accounts included, so an
// import of the result reproduces the database exactly.
func (a *Archiver) Export(ctx context.Context) (*Document, error) {
	accounts, err := a.storage.GetAccounts(ctx, true)
	if err != nil {
		return nil, err
	}
	categories, err := a.storage.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := a.storage.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	transfers, err := a.storage.GetTransfers(ctx, 0)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		SchemaVersion: SchemaVersion,
		ExportedAt:    time.Now().UTC(),
		Accounts:      make([]accountRecord, 0, len(accounts)),
		Categories:    make([]categoryRecord, 0, len(categories)),
		Transactions:  make([]txnRecord, 0, len(transactions)),
		Transfers:     make([]transferRecord, 0, len(transfers)),
	}
	for _, acc := range accounts {
		doc.Accounts = append(doc.Accounts, accountRecord{
			ID:             acc.ID,
			Name:           acc.Name,
			Type:           string(acc.Type),
			Icon:           acc.Icon,
			Color:          acc.Color,
			Description:    acc.Description,
			InitialBalance: acc.InitialBalance,
			SortOrder:      acc.SortOrder,
			IsActive:       acc.IsActive,
		})
	}
	for _, cat := range categories {
		doc.Categories = append(doc.Categories, categoryRecord{
			ID:    cat.ID,
			Name:  cat.Name,
			Icon:  cat.Icon,
			Color: cat.Color,
			Kind:  string(cat.Kind),
		})
	}
	for _, txn := range transactions {
		doc.Transactions = append(doc.Transactions, txnRecord{
			ID:         txn.ID,
			Kind:       string(txn.Kind),
			Amount:     txn.Amount,
			CategoryID: txn.CategoryID,
			AccountID:  txn.AccountID,
			Note:       txn.Note,
			Date:       txn.Date,
		})
	}
	for _, tr := range transfers {
		doc.Transfers = append(doc.Transfers, transferRecord{
			ID:            tr.ID,
			FromAccountID: tr.FromAccountID,
			ToAccountID:   tr.ToAccountID,
			Amount:        tr.Amount,
			Fee:           tr.Fee,
			Note:          tr.Note,
			Date:          tr.Date,
		})
	}
	return doc, nil
}

// ExportJSON writes the full data set to w as indented JSON.
func (a *Archiver) ExportJSON(ctx context.Context, w io.Writer) error {
	doc, err := a.Export(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	slog.Info("exported data",
		"transactions", len(doc.Transactions),
		"transfers", len(doc.Transfers),
		"accounts", len(doc.Accounts),
	)
	return nil
}

// ImportJSON replaces the current data set with the one read from r and
// rebuilds all account balances. The progress callback, if non-nil, runs
// once per account during the rebuild.
func (a *Archiver) ImportJSON(ctx context.Context, r io.Reader, progress func()) error {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	return a.Import(ctx, &doc, progress)
}

// Import replaces the current data set with the document's contents.
func (a *Archiver) Import(ctx context.Context, doc *Document, progress func()) error {
	if doc.SchemaVersion > SchemaVersion {
		return fmt.Errorf("schema version %d: %w", doc.SchemaVersion, common.ErrUnsupportedVersion)
	}
	migrateLegacy(doc)

	if err := validateDocument(doc); err != nil {
		return err
	}

	tx, err := a.storage.BeginTx(ctx)
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

	if err := importAccounts(ctx, tx, doc.Accounts); err != nil {
		return err
	}
	if err := importCategories(ctx, tx, doc.Categories); err != nil {
		return err
	}
	for _, rec := range doc.Transactions {
		txn := &model.Transaction{
			ID:         rec.ID,
			Kind:       model.TransactionKind(rec.Kind),
			Amount:     rec.Amount,
			CategoryID: rec.CategoryID,
			AccountID:  rec.AccountID,
			Note:       rec.Note,
			Date:       model.DateOnly(rec.Date),
		}
		if err := tx.CreateTransaction(ctx, txn); err != nil {
			return err
		}
	}
	for _, rec := range doc.Transfers {
		transfer := &model.AccountTransfer{
			ID:            rec.ID,
			FromAccountID: rec.FromAccountID,
			ToAccountID:   rec.ToAccountID,
			Amount:        rec.Amount,
			Fee:           rec.Fee,
			Note:          rec.Note,
			Date:          model.DateOnly(rec.Date),
		}
		if err := tx.CreateTransfer(ctx, transfer); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	slog.Info("imported data",
		"schemaVersion", doc.SchemaVersion,
		"transactions", len(doc.Transactions),
		"transfers", len(doc.Transfers),
	)

	// Balances are a projection of the imported history, not part of the
	// wire format, so rebuild them from scratch.
	return a.ledger.RecalculateAllBalances(ctx, progress)
}

// migrateLegacy upgrades a version 1 document in place. Version 1 predates
// accounts, so its transactions all belong to the seeded cash account.
func migrateLegacy(doc *Document) {
	if doc.SchemaVersion >= SchemaVersion {
		return
	}
	for i := range doc.Transactions {
		if doc.Transactions[i].AccountID == "" {
			doc.Transactions[i].AccountID = "default"
		}
	}
	doc.SchemaVersion = SchemaVersion
}

func validateDocument(doc *Document) error {
	for _, rec := range doc.Transactions {
		if rec.ID == "" || rec.CategoryID == "" || rec.AccountID == "" {
			return fmt.Errorf("transaction missing required fields: %w", common.ErrParse)
		}
		if !model.ValidTransactionKind(model.TransactionKind(rec.Kind)) {
			return fmt.Errorf("transaction %s has kind %q: %w", rec.ID, rec.Kind, common.ErrParse)
		}
		if rec.Amount < 0 {
			return fmt.Errorf("transaction %s has negative amount: %w", rec.ID, common.ErrParse)
		}
	}
	for _, rec := range doc.Transfers {
		if rec.ID == "" || rec.FromAccountID == "" || rec.ToAccountID == "" {
			return fmt.Errorf("transfer missing required fields: %w", common.ErrParse)
		}
	}
	return nil
}

func importAccounts(ctx context.Context, tx service.Tx, records []accountRecord) error {
	for _, rec := range records {
		account := &model.Account{
			ID:             rec.ID,
			Name:           rec.Name,
			Type:           model.AccountType(rec.Type),
			Icon:           rec.Icon,
			Color:          rec.Color,
			Description:    rec.Description,
			InitialBalance: rec.InitialBalance,
			Balance:        rec.InitialBalance,
			SortOrder:      rec.SortOrder,
			IsActive:       rec.IsActive,
		}
		if !model.ValidAccountType(account.Type) {
			return fmt.Errorf("account %s has type %q: %w", rec.ID, rec.Type, common.ErrParse)
		}

		_, err := tx.GetAccount(ctx, account.ID)
		switch {
		case common.IsNotFound(err):
			if err := tx.CreateAccount(ctx, account); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.UpdateAccount(ctx, account); err != nil {
				return err
			}
		}
	}
	return nil
}

func importCategories(ctx context.Context, tx service.Tx, records []categoryRecord) error {
	for _, rec := range records {
		category := &model.Category{
			ID:    rec.ID,
			Name:  rec.Name,
			Icon:  rec.Icon,
			Color: rec.Color,
			Kind:  model.CategoryKind(rec.Kind),
		}

		_, err := tx.GetCategory(ctx, category.ID)
		switch {
		case common.IsNotFound(err):
			if err := tx.CreateCategory(ctx, category); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.UpdateCategory(ctx, category); err != nil {
				return err
			}
		}
	}
	return nil
}
