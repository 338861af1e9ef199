package model

import "time"

// BudgetStatus is the three-state health of a budget for one month.
type BudgetStatus string

const (
	// BudgetStatusNormal means spending is below the alert threshold.
	BudgetStatusNormal BudgetStatus = "normal"
	// BudgetStatusWarning means spending reached the alert threshold but not the cap.
	BudgetStatusWarning BudgetStatus = "warning"
	// BudgetStatusExceeded means spending reached or passed the cap.
	BudgetStatusExceeded BudgetStatus = "exceeded"
)

// DefaultAlertThreshold is the warning percentage used when a budget is
// created without an explicit threshold.
const DefaultAlertThreshold = 80.0

// Budget is a per-category monthly spending cap. At most one active budget
// exists per (category, year, month); setting a budget for a period that
// already has one updates it in place.
type Budget struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ID             string
	CategoryID     string
	CategoryName   string
	Amount         float64
	AlertThreshold float64
	Year           int
	Month          int
	IsActive       bool
}

// BudgetExecution is a derived, never-persisted view of spend-vs-cap for
// one budget and month. It is recomputed on every read.
type BudgetExecution struct {
	BudgetID          string
	CategoryID        string
	CategoryName      string
	Status            BudgetStatus
	BudgetAmount      float64
	SpentAmount       float64
	RemainingAmount   float64
	Percentage        float64
	DailyAverage      float64
	ProjectedSpending float64
	DaysRemaining     int
}

// ExecutionStatus derives the three-state status from a spend percentage
// and an alert threshold.
func ExecutionStatus(percentage, alertThreshold float64) BudgetStatus {
	switch {
	case percentage >= 100:
		return BudgetStatusExceeded
	case percentage >= alertThreshold:
		return BudgetStatusWarning
	default:
		return BudgetStatusNormal
	}
}
