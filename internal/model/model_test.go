package model

import (
	"testing"
	"time"
)

func TestTransaction_BalanceDelta(t *testing.T) {
	tests := []struct {
		name string
		txn  Transaction
		want float64
	}{
		{
			name: "income adds to balance",
			txn:  Transaction{Kind: KindIncome, Amount: 100},
			want: 100,
		},
		{
			name: "expense subtracts from balance",
			txn:  Transaction{Kind: KindExpense, Amount: 42.50},
			want: -42.50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.txn.BalanceDelta(); got != tt.want {
				t.Errorf("BalanceDelta() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 3, 15, 22, 45, 12, 999, time.FixedZone("CET", 3600))
	got := DateOnly(in)
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v, want %v", in, got, want)
	}
}

func TestExecutionStatus(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		threshold  float64
		want       BudgetStatus
	}{
		{"well under threshold", 10, 80, BudgetStatusNormal},
		{"just under threshold", 79.9, 80, BudgetStatusNormal},
		{"at threshold", 80, 80, BudgetStatusWarning},
		{"between threshold and cap", 99.9, 80, BudgetStatusWarning},
		{"at cap", 100, 80, BudgetStatusExceeded},
		{"over cap", 100.1, 80, BudgetStatusExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExecutionStatus(tt.percentage, tt.threshold); got != tt.want {
				t.Errorf("ExecutionStatus(%v, %v) = %v, want %v", tt.percentage, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestAccountTransfer_TotalDebit(t *testing.T) {
	tr := AccountTransfer{Amount: 50, Fee: 5}
	if got := tr.TotalDebit(); got != 55 {
		t.Errorf("TotalDebit() = %v, want 55", got)
	}
}
