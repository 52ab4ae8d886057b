package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expensetrackr/expense-api/middleware"
	"github.com/expensetrackr/expense-api/models"
)

type BudgetHandler struct {
	DB *sql.DB
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Category == "" {
		req.Category = "General"
	}

	budget := models.Budget{
		ID:        uuid.New().String(),
		Month:     req.Month,
		Year:      req.Year,
		Amount:    req.Amount,
		Category:  req.Category,
		OwnerID:   userID,
		CreatedAt: time.Now(),
	}

	_, err := h.DB.Exec(`
		INSERT INTO budgets (id, month, year, amount, category, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, budget.ID, budget.Month, budget.Year, budget.Amount, budget.Category, budget.OwnerID, budget.CreatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget"})
		return
	}

	c.JSON(http.StatusCreated, budget)
}

func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, month, year, amount, category, owner_id, created_at
		FROM budgets
		WHERE owner_id = $1
		ORDER BY year DESC, month DESC
	`, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budgets"})
		return
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var budget models.Budget
		if err := rows.Scan(
			&budget.ID,
			&budget.Month,
			&budget.Year,
			&budget.Amount,
			&budget.Category,
			&budget.OwnerID,
			&budget.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budgets"})
			return
		}
		budgets = append(budgets, budget)
	}

	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Category == "" {
		req.Category = "General"
	}

	budgetID := c.Param("id")

	result, err := h.DB.Exec(`
		UPDATE budgets
		SET month = $1, year = $2, amount = $3, category = $4
		WHERE id = $5 AND owner_id = $6
	`, req.Month, req.Year, req.Amount, req.Category, budgetID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}

	var budget models.Budget
	err = h.DB.QueryRow(`
		SELECT id, month, year, amount, category, owner_id, created_at
		FROM budgets
		WHERE id = $1 AND owner_id = $2
	`, budgetID, userID).Scan(
		&budget.ID,
		&budget.Month,
		&budget.Year,
		&budget.Amount,
		&budget.Category,
		&budget.OwnerID,
		&budget.CreatedAt,
	)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budget"})
		return
	}

	c.JSON(http.StatusOK, budget)
}
