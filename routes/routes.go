package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/expensetrackr/expense-api/handlers"
	"github.com/expensetrackr/expense-api/services"
)

// SetupAuthRoutes sets up public authentication and password-reset routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB, mailer services.Mailer) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/register", authHandler.Register)
	rg.POST("/auth/login", authHandler.Login)

	resetHandler := &handlers.ResetHandler{
		Service: services.NewResetService(services.NewPostgresResetStore(db), mailer),
	}

	rg.POST("/password-reset/request", resetHandler.RequestReset)
	rg.POST("/password-reset/verify", resetHandler.VerifyReset)
}

// SetupExpenseRoutes sets up protected expense routes.
func SetupExpenseRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := &handlers.ExpenseHandler{DB: db}

	rg.POST("/expenses", h.CreateExpense)
	rg.GET("/expenses", h.GetExpenses)
	rg.GET("/expenses/summary", h.GetSummary)
	rg.GET("/expenses/export/csv", h.ExportCSV)
	rg.GET("/expenses/:id", h.GetExpense)
	rg.PUT("/expenses/:id", h.UpdateExpense)
	rg.DELETE("/expenses/:id", h.DeleteExpense)
}

// SetupBudgetRoutes sets up protected budget routes.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := &handlers.BudgetHandler{DB: db}

	rg.POST("/budgets", h.CreateBudget)
	rg.GET("/budgets", h.GetBudgets)
	rg.PUT("/budgets/:id", h.UpdateBudget)
}

// SetupUserRoutes sets up protected user profile routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", h.GetProfile)
	rg.PUT("/user/profile", h.UpdateProfile)
	rg.POST("/user/password", h.ChangePassword)
	rg.POST("/user/2fa/setup", h.SetupTOTP)
	rg.POST("/user/2fa/verify", h.VerifyTOTP)
	rg.POST("/user/2fa/disable", h.DisableTOTP)
	rg.DELETE("/user/account", h.DeleteAccount)
}
