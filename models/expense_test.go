package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The patch type must distinguish "field omitted" from "field set to its
// zero value": an omitted field stays nil, a present one carries a pointer.
func TestUpdateExpenseRequestPatchSemantics(t *testing.T) {
	var partial UpdateExpenseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 0, "category": ""}`), &partial))

	require.NotNil(t, partial.Amount)
	assert.Equal(t, 0.0, *partial.Amount)
	require.NotNil(t, partial.Category)
	assert.Equal(t, "", *partial.Category)
	assert.Nil(t, partial.Description)
	assert.Nil(t, partial.Date)

	var empty UpdateExpenseRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Nil(t, empty.Description)
	assert.Nil(t, empty.Amount)
	assert.Nil(t, empty.Category)
	assert.Nil(t, empty.Date)
}

func TestSummaryJSONOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal(Summary{
		TotalExpenses:     0,
		TotalCount:        0,
		CategoryBreakdown: map[string]float64{},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"total_expenses":0,"total_count":0,"category_breakdown":{}}`, string(data))
}

func TestSummaryJSONFieldNames(t *testing.T) {
	month, year := 10, 2025
	warning := "Budget exceeded! You've spent $1200.00 out of $1000.00 budget for 10/2025"

	data, err := json.Marshal(Summary{
		TotalExpenses:     1200,
		TotalCount:        2,
		Month:             &month,
		Year:              &year,
		CategoryBreakdown: map[string]float64{"Rent": 1200},
		BudgetWarning:     &warning,
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, field := range []string{
		"total_expenses", "total_count", "month", "year", "category_breakdown", "budget_warning",
	} {
		assert.Contains(t, decoded, field)
	}
}
