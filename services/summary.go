package services

import (
	"fmt"
	"time"

	"github.com/expensetrackr/expense-api/models"
)

// Summarize computes the total, count, per-category breakdown and optional
// budget warning for an already-filtered expense set. It is pure: fetching
// the expenses and the matching budget is the caller's job, and a nil budget
// or empty set is fine.
//
// month == 0 means no month filter was applied. When a month is present the
// summary (and the warning text) is anchored to the current calendar year,
// regardless of the dates on the expenses themselves. Clients depend on that
// anchoring, so it is kept even across year boundaries.
func Summarize(expenses []models.Expense, budget *models.Budget, month int, now time.Time) models.Summary {
	summary := models.Summary{
		CategoryBreakdown: make(map[string]float64),
	}

	for _, expense := range expenses {
		summary.TotalExpenses += expense.Amount
		summary.CategoryBreakdown[expense.Category] += expense.Amount
	}
	summary.TotalCount = len(expenses)

	if month == 0 {
		return summary
	}

	year := now.Year()
	summary.Month = &month
	summary.Year = &year

	if budget != nil && summary.TotalExpenses > budget.Amount {
		warning := fmt.Sprintf(
			"Budget exceeded! You've spent $%.2f out of $%.2f budget for %d/%d",
			summary.TotalExpenses, budget.Amount, month, year,
		)
		summary.BudgetWarning = &warning
	}

	return summary
}
