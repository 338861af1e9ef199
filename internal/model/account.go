// Package model defines the core domain types for the ledger.
package model

import "time"

// AccountType classifies where the money in an account is held.
type AccountType string

const (
	// AccountTypeCash is physical cash on hand.
	AccountTypeCash AccountType = "cash"
	// AccountTypeBankCard is a debit card or checking account.
	AccountTypeBankCard AccountType = "bank_card"
	// AccountTypeEWallet is an electronic wallet (Alipay, WeChat Pay, PayPal...).
	AccountTypeEWallet AccountType = "e_wallet"
	// AccountTypeCreditCard is a credit card; its balance counts as a liability.
	AccountTypeCreditCard AccountType = "credit_card"
	// AccountTypeOther covers everything else.
	AccountTypeOther AccountType = "other"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeCash, AccountTypeBankCard, AccountTypeEWallet, AccountTypeCreditCard, AccountTypeOther:
		return true
	default:
		return false
	}
}

// Account is a named money container. Balance is an incrementally maintained
// projection of InitialBalance plus the account's transaction and transfer
// history; it is only ever mutated through the ledger service.
type Account struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ID             string
	Name           string
	Type           AccountType
	Icon           string
	Color          string
	Description    string
	Balance        float64
	InitialBalance float64
	SortOrder      int
	IsActive       bool
}

// IsLiability reports whether the account's balance represents money owed
// rather than money held.
func (a *Account) IsLiability() bool {
	return a.Type == AccountTypeCreditCard
}
