package models

import "time"

type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	OwnerID     string    `json:"owner_id"`
}

type CreateExpenseRequest struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Category    string  `json:"category"`
}

// UpdateExpenseRequest is a patch: only fields present in the request body
// overwrite the stored row. Pointer fields distinguish "omitted" from
// "set to zero value".
type UpdateExpenseRequest struct {
	Description *string    `json:"description"`
	Amount      *float64   `json:"amount"`
	Category    *string    `json:"category"`
	Date        *time.Time `json:"date"`
}

// Summary is the expense summary response. Field names are part of the API
// contract; month, year and budget_warning are omitted when not applicable.
type Summary struct {
	TotalExpenses     float64            `json:"total_expenses"`
	TotalCount        int                `json:"total_count"`
	Month             *int               `json:"month,omitempty"`
	Year              *int               `json:"year,omitempty"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
	BudgetWarning     *string            `json:"budget_warning,omitempty"`
}
