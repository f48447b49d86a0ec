package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/trackspend/expense-api/handlers"
	"github.com/trackspend/expense-api/services"
	"github.com/trackspend/expense-api/utils"
)

// SetupUserRoutes wires account registration, login and profile management.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userService := services.NewUserService(db, utils.BcryptHasher{})
	h := &handlers.UserHandler{Users: userService}

	rg.POST("/users/register", h.Register)
	rg.POST("/users/login", h.Login)
	rg.GET("/users/:userId", h.GetUser)
	rg.PUT("/users/:userId", h.UpdateUser)
	rg.DELETE("/users/:userId", h.DeleteUser)
}

// SetupExpenseRoutes wires the expense ledger.
func SetupExpenseRoutes(rg *gin.RouterGroup, db *sql.DB) {
	expenseService := services.NewExpenseService(db)
	h := &handlers.ExpenseHandler{Expenses: expenseService}

	rg.POST("/expenses/:userId", h.AddExpense)
	rg.GET("/expenses/:userId", h.GetExpenses)
	rg.GET("/expenses/:userId/all", h.GetExpenses)
	rg.GET("/expenses/:userId/by-category/:category", h.GetExpensesByCategory)
	rg.GET("/expenses/:userId/date-range", h.GetExpensesByDateRange)
	rg.GET("/expenses/:userId/total", h.GetTotalSpending)
	rg.GET("/expenses/:userId/category-stats", h.GetCategoryStats)
	rg.PUT("/expenses/:userId/:expenseId", h.UpdateExpense)
	rg.DELETE("/expenses/:userId/:expenseId", h.DeleteExpense)
	rg.DELETE("/expenses/:userId", h.DeleteAllExpenses)
}

// SetupBudgetRoutes wires budget upsert, listing and the spending view.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB) {
	budgetService := services.NewBudgetService(db)
	h := &handlers.BudgetHandler{Budgets: budgetService}

	rg.POST("/budgets/:userId", h.SetBudget)
	rg.GET("/budgets/:userId", h.GetBudgets)
	rg.GET("/budgets/:userId/with-spending", h.GetBudgetsWithSpending)
	rg.PUT("/budgets/:userId/:budgetId", h.UpdateBudget)
	rg.DELETE("/budgets/:userId/:budgetId", h.DeleteBudget)
}
