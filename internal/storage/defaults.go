package storage

import "pocketledger/internal/model"

// DefaultAccounts returns the three accounts seeded into a fresh database.
// The "default" account also absorbs imported legacy transactions that
// predate account support.
func DefaultAccounts() []model.Account {
	return []model.Account{
		{
			ID:        "default",
			Name:      "Cash",
			Type:      model.AccountTypeCash,
			Icon:      "💵",
			Color:     "#52C41A",
			SortOrder: 0,
			IsActive:  true,
		},
		{
			ID:        "bank",
			Name:      "Bank Card",
			Type:      model.AccountTypeBankCard,
			Icon:      "💳",
			Color:     "#1890FF",
			SortOrder: 1,
			IsActive:  true,
		},
		{
			ID:        "ewallet",
			Name:      "E-Wallet",
			Type:      model.AccountTypeEWallet,
			Icon:      "📱",
			Color:     "#722ED1",
			SortOrder: 2,
			IsActive:  true,
		},
	}
}

// DefaultCategories returns the categories seeded into a fresh database.
// Fully user-editable; ResetCategories restores this set.
func DefaultCategories() []model.Category {
	return []model.Category{
		{ID: "1", Name: "Dining", Icon: "🍽️", Color: "#FF6B6B", Kind: model.CategoryKindExpense},
		{ID: "2", Name: "Education", Icon: "📚", Color: "#4ECDC4", Kind: model.CategoryKindExpense},
		{ID: "3", Name: "Transport", Icon: "🚗", Color: "#45B7D1", Kind: model.CategoryKindExpense},
		{ID: "4", Name: "Entertainment", Icon: "🎮", Color: "#96CEB4", Kind: model.CategoryKindExpense},
		{ID: "5", Name: "Shopping", Icon: "🛍️", Color: "#FFEAA7", Kind: model.CategoryKindExpense},
		{ID: "6", Name: "Salary", Icon: "💼", Color: "#52C41A", Kind: model.CategoryKindIncome},
		{ID: "7", Name: "Allowance", Icon: "💰", Color: "#52C41A", Kind: model.CategoryKindIncome},
		{ID: "8", Name: "Other", Icon: "📦", Color: "#95A5A6", Kind: model.CategoryKindExpense},
	}
}
