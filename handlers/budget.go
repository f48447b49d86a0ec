package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackspend/expense-api/models"
	"github.com/trackspend/expense-api/services"
)

type BudgetHandler struct {
	Budgets *services.BudgetService
}

// SetBudget upserts the budget for (user, category): 201 when a budget was
// created, 200 when an existing one had its amount replaced.
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	var req models.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	budget, created, err := h.Budgets.Set(c.Request.Context(), c.Param("userId"), req.Category, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, budget)
}

func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	budgets, err := h.Budgets.List(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) GetBudgetsWithSpending(c *gin.Context) {
	budgets, err := h.Budgets.ListWithSpending(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	var req models.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	budget, err := h.Budgets.Update(c.Request.Context(), c.Param("userId"), c.Param("budgetId"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	if err := h.Budgets.Delete(c.Request.Context(), c.Param("userId"), c.Param("budgetId")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
