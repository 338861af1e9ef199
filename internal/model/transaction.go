package model

import "time"

// TransactionKind is the direction of a transaction. The amount itself is
// always positive; the kind decides the sign applied to the account balance.
type TransactionKind string

const (
	// KindIncome adds money to the owning account.
	KindIncome TransactionKind = "income"
	// KindExpense removes money from the owning account.
	KindExpense TransactionKind = "expense"
)

// ValidTransactionKind reports whether k is a known transaction kind.
func ValidTransactionKind(k TransactionKind) bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single income or expense event on one account.
// Amount, Kind and AccountID are immutable once recorded; correcting a
// mistake means reversing the transaction and recording a new one.
type Transaction struct {
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ID          string
	Kind        TransactionKind
	CategoryID  string
	AccountID   string
	AccountName string
	Note        string
	Amount      float64
}

// BalanceDelta returns the signed effect of the transaction on its
// account's balance: +Amount for income, -Amount for expense.
func (t *Transaction) BalanceDelta() float64 {
	if t.Kind == KindIncome {
		return t.Amount
	}
	return -t.Amount
}

// DateOnly truncates a timestamp to its calendar day in UTC. Transaction
// dates carry no time component.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
