package cli

import (
	"strings"
	"testing"

	"pocketledger/internal/model"
)

func TestRenderBudgetBar(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		wantFilled int
	}{
		{"empty", 0, 0},
		{"half", 50, 10},
		{"full", 100, 20},
		{"pinned over limit", 150, 20},
		{"clamped negative", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := RenderBudgetBar(model.BudgetStatusNormal, tt.percentage, 20)
			if got := strings.Count(bar, "█"); got != tt.wantFilled {
				t.Errorf("Expected %d filled cells, got %d", tt.wantFilled, got)
			}
			if got := strings.Count(bar, "░"); got != 20-tt.wantFilled {
				t.Errorf("Expected %d empty cells, got %d", 20-tt.wantFilled, got)
			}
		})
	}
}

func TestFormatSignedMoney(t *testing.T) {
	if !strings.Contains(FormatSignedMoney(model.KindIncome, 12.5), "+12.50") {
		t.Error("Income should render with a plus sign")
	}
	if !strings.Contains(FormatSignedMoney(model.KindExpense, 12.5), "-12.50") {
		t.Error("Expense should render with a minus sign")
	}
}
