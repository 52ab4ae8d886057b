package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensetrackr/expense-api/models"
)

func expense(amount float64, category string) models.Expense {
	return models.Expense{
		ID:          "e-" + category,
		Description: "test expense",
		Amount:      amount,
		Category:    category,
		Date:        time.Now(),
		OwnerID:     "owner-1",
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, nil, 0, time.Now())

	assert.Equal(t, 0.0, summary.TotalExpenses)
	assert.Equal(t, 0, summary.TotalCount)
	assert.Empty(t, summary.CategoryBreakdown)
	assert.Nil(t, summary.Month)
	assert.Nil(t, summary.Year)
	assert.Nil(t, summary.BudgetWarning)
}

func TestSummarizeTotalsAndBreakdown(t *testing.T) {
	expenses := []models.Expense{
		expense(10.50, "Food"),
		expense(4.50, "Food"),
		expense(20.00, "Transport"),
		expense(20.00, "Rent"),
	}

	summary := Summarize(expenses, nil, 0, time.Now())

	assert.Equal(t, 55.00, summary.TotalExpenses)
	assert.Equal(t, 4, summary.TotalCount)
	assert.Equal(t, map[string]float64{
		"Food":      15.00,
		"Transport": 20.00,
		"Rent":      20.00,
	}, summary.CategoryBreakdown)

	// The breakdown always sums back to the total.
	var breakdownSum float64
	for _, amount := range summary.CategoryBreakdown {
		breakdownSum += amount
	}
	assert.Equal(t, summary.TotalExpenses, breakdownSum)
}

func TestSummarizeSingleExpense(t *testing.T) {
	summary := Summarize([]models.Expense{expense(9.99, "Other")}, nil, 0, time.Now())

	assert.Equal(t, 9.99, summary.TotalExpenses)
	assert.Equal(t, 1, summary.TotalCount)
	assert.Equal(t, map[string]float64{"Other": 9.99}, summary.CategoryBreakdown)
}

func TestSummarizeBudgetExceeded(t *testing.T) {
	now := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)
	budget := &models.Budget{Month: 10, Year: 2025, Amount: 1000.00, Category: "General"}
	expenses := []models.Expense{
		expense(700.00, "Rent"),
		expense(500.00, "Food"),
	}

	summary := Summarize(expenses, budget, 10, now)

	require.NotNil(t, summary.BudgetWarning)
	assert.Equal(t,
		"Budget exceeded! You've spent $1200.00 out of $1000.00 budget for 10/2025",
		*summary.BudgetWarning)
	require.NotNil(t, summary.Month)
	require.NotNil(t, summary.Year)
	assert.Equal(t, 10, *summary.Month)
	assert.Equal(t, 2025, *summary.Year)
}

func TestSummarizeUnderBudget(t *testing.T) {
	now := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)
	budget := &models.Budget{Month: 10, Year: 2025, Amount: 1000.00}

	summary := Summarize([]models.Expense{expense(900.00, "Rent")}, budget, 10, now)

	assert.Nil(t, summary.BudgetWarning)
}

func TestSummarizeSpendEqualToBudget(t *testing.T) {
	// Warning only fires on strictly greater spend.
	now := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)
	budget := &models.Budget{Month: 10, Year: 2025, Amount: 1000.00}

	summary := Summarize([]models.Expense{expense(1000.00, "Rent")}, budget, 10, now)

	assert.Nil(t, summary.BudgetWarning)
}

func TestSummarizeNoMatchingBudget(t *testing.T) {
	now := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)

	summary := Summarize([]models.Expense{expense(1200.00, "Rent")}, nil, 10, now)

	assert.Nil(t, summary.BudgetWarning)
	require.NotNil(t, summary.Month)
	assert.Equal(t, 10, *summary.Month)
}

func TestSummarizeNoMonthNoWarning(t *testing.T) {
	// Without a month filter a budget never produces a warning and the
	// summary carries no month/year.
	budget := &models.Budget{Month: 10, Year: 2025, Amount: 1.00}

	summary := Summarize([]models.Expense{expense(1200.00, "Rent")}, budget, 0, time.Now())

	assert.Nil(t, summary.BudgetWarning)
	assert.Nil(t, summary.Month)
	assert.Nil(t, summary.Year)
}

func TestSummarizeYearAnchoredToNow(t *testing.T) {
	// The year is always "now", not the year of the expenses.
	now := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	old := expense(50.00, "Food")
	old.Date = time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC)

	budget := &models.Budget{Month: 1, Year: 2026, Amount: 10.00}
	summary := Summarize([]models.Expense{old}, budget, 1, now)

	require.NotNil(t, summary.Year)
	assert.Equal(t, 2026, *summary.Year)
	require.NotNil(t, summary.BudgetWarning)
	assert.Contains(t, *summary.BudgetWarning, "for 1/2026")
}
