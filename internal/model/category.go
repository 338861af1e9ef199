package model

// CategoryKind indicates whether a category labels income or expenses.
type CategoryKind string

const (
	// CategoryKindIncome labels income transactions.
	CategoryKindIncome CategoryKind = "income"
	// CategoryKindExpense labels expense transactions.
	CategoryKindExpense CategoryKind = "expense"
)

// Category is a flat label with display metadata. Categories have no
// hierarchy and no behavior; budgets and transactions reference them by ID.
type Category struct {
	ID    string
	Name  string
	Icon  string
	Color string
	Kind  CategoryKind
}
