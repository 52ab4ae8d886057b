package handlers

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expensetrackr/expense-api/middleware"
	"github.com/expensetrackr/expense-api/models"
	"github.com/expensetrackr/expense-api/services"
)

type ExpenseHandler struct {
	DB *sql.DB
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Category == "" {
		req.Category = "Other"
	}

	expense := models.Expense{
		ID:          uuid.New().String(),
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        time.Now(),
		OwnerID:     userID,
	}

	_, err := h.DB.Exec(`
		INSERT INTO expenses (id, description, amount, category, date, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, expense.ID, expense.Description, expense.Amount, expense.Category, expense.Date, expense.OwnerID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// GetExpenses lists the caller's expenses, optionally filtered by category
// and/or calendar month (1-12, any year).
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	month, ok := parseMonth(c)
	if !ok {
		return
	}

	expenses, err := h.queryExpenses(userID, c.Query("category"), month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// GetSummary returns totals, a category breakdown and, when a month filter
// plus a matching budget are present, a budget-exceeded warning.
func (h *ExpenseHandler) GetSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	month, ok := parseMonth(c)
	if !ok {
		return
	}

	expenses, err := h.queryExpenses(userID, "", month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}

	now := time.Now()

	var budget *models.Budget
	if month != 0 {
		budget, err = h.findBudget(userID, month, now.Year())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budget"})
			return
		}
	}

	c.JSON(http.StatusOK, services.Summarize(expenses, budget, month, now))
}

func (h *ExpenseHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expenses, err := h.queryExpenses(userID, "", 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=expenses.csv")

	writer := csv.NewWriter(c.Writer)
	writer.Write([]string{"id", "description", "amount", "category", "date"})
	for _, expense := range expenses {
		writer.Write([]string{
			expense.ID,
			expense.Description,
			strconv.FormatFloat(expense.Amount, 'f', -1, 64),
			expense.Category,
			expense.Date.Format(time.RFC3339),
		})
	}
	writer.Flush()
}

func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseByID(c.Param("id"), userID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expense"})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// UpdateExpense applies a partial update: only fields present in the body
// overwrite the stored row.
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expenseID := c.Param("id")

	setClauses := []string{}
	args := []interface{}{}
	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.Amount != nil {
		addSet("amount", *req.Amount)
	}
	if req.Category != nil {
		addSet("category", *req.Category)
	}
	if req.Date != nil {
		addSet("date", *req.Date)
	}

	if len(setClauses) > 0 {
		args = append(args, expenseID, userID)
		query := fmt.Sprintf(
			"UPDATE expenses SET %s WHERE id = $%d AND owner_id = $%d",
			strings.Join(setClauses, ", "), len(args)-1, len(args),
		)

		result, err := h.DB.Exec(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
	}

	expense, err := h.expenseByID(expenseID, userID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expense"})
		return
	}

	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM expenses WHERE id = $1 AND owner_id = $2
	`, c.Param("id"), userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

func (h *ExpenseHandler) queryExpenses(userID, category string, month int) ([]models.Expense, error) {
	query := `
		SELECT id, description, amount, category, date, owner_id
		FROM expenses
		WHERE owner_id = $1`
	args := []interface{}{userID}

	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if month != 0 {
		args = append(args, month)
		query += fmt.Sprintf(" AND EXTRACT(MONTH FROM date) = $%d", len(args))
	}
	query += " ORDER BY date DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var expense models.Expense
		if err := rows.Scan(
			&expense.ID,
			&expense.Description,
			&expense.Amount,
			&expense.Category,
			&expense.Date,
			&expense.OwnerID,
		); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

func (h *ExpenseHandler) expenseByID(expenseID, userID string) (*models.Expense, error) {
	var expense models.Expense
	err := h.DB.QueryRow(`
		SELECT id, description, amount, category, date, owner_id
		FROM expenses
		WHERE id = $1 AND owner_id = $2
	`, expenseID, userID).Scan(
		&expense.ID,
		&expense.Description,
		&expense.Amount,
		&expense.Category,
		&expense.Date,
		&expense.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// findBudget picks the most recently created budget for (owner, month, year).
// Duplicates per month are representable, so the newest one wins.
func (h *ExpenseHandler) findBudget(userID string, month, year int) (*models.Budget, error) {
	var budget models.Budget
	err := h.DB.QueryRow(`
		SELECT id, month, year, amount, category, owner_id, created_at
		FROM budgets
		WHERE owner_id = $1 AND month = $2 AND year = $3
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, month, year).Scan(
		&budget.ID,
		&budget.Month,
		&budget.Year,
		&budget.Amount,
		&budget.Category,
		&budget.OwnerID,
		&budget.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// parseMonth reads the optional ?month query parameter. A response has
// already been written when ok is false.
func parseMonth(c *gin.Context) (int, bool) {
	raw := c.Query("month")
	if raw == "" {
		return 0, true
	}

	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
		return 0, false
	}
	return month, true
}
