package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackspend/expense-api/models"
	"github.com/trackspend/expense-api/services"
)

type ExpenseHandler struct {
	Expenses *services.ExpenseService
}

func (h *ExpenseHandler) AddExpense(c *gin.Context) {
	var req models.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	expense, err := h.Expenses.Add(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	expenses, err := h.Expenses.List(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) GetExpensesByCategory(c *gin.Context) {
	expenses, err := h.Expenses.ListByCategory(c.Request.Context(), c.Param("userId"), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) GetExpensesByDateRange(c *gin.Context) {
	expenses, err := h.Expenses.ListByDateRange(
		c.Request.Context(),
		c.Param("userId"),
		c.Query("startDate"),
		c.Query("endDate"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) GetTotalSpending(c *gin.Context) {
	totals, err := h.Expenses.Totals(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

func (h *ExpenseHandler) GetCategoryStats(c *gin.Context) {
	stats, err := h.Expenses.CategoryStats(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var req models.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	expense, err := h.Expenses.Update(c.Request.Context(), c.Param("userId"), c.Param("expenseId"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	if err := h.Expenses.Delete(c.Request.Context(), c.Param("userId"), c.Param("expenseId")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ExpenseHandler) DeleteAllExpenses(c *gin.Context) {
	if err := h.Expenses.DeleteAll(c.Request.Context(), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
