package model

import "time"

// AccountTransfer is a movement of funds between two distinct accounts.
// The source is debited Amount+Fee, the destination is credited Amount;
// the fee leaves the ledger entirely, as a real transfer fee does.
type AccountTransfer struct {
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ID            string
	FromAccountID string
	ToAccountID   string
	Note          string
	Amount        float64
	Fee           float64
}

// TotalDebit is the full amount removed from the source account.
func (t *AccountTransfer) TotalDebit() float64 {
	return t.Amount + t.Fee
}
