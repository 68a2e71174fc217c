package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgettool/internal/errors"
	"budgettool/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// UpsertBudgetRequest represents the request payload for setting a budget.
type UpsertBudgetRequest struct {
	AnnualBudget *float64 `json:"annual_budget" binding:"required,gte=0"`
}

// GetBudget handles fetching the budget for a (vendor, year, budget type).
// @Summary     Get budget
// @Description Get the annual budget for a vendor, year and budget type. "budget" is null when none has been set.
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id          path string true "Vendor ID"
// @Param       year        path int    true "Budget year"
// @Param       budget_type path string true "residential, commercial or public"
// @Success     200 {object} models.VendorBudget "Budget or null"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors/{id}/budgets/{year}/{budget_type} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key, err := budgetKeyFromPath(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), userID, key)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpsertBudget handles setting the budget for a (vendor, year, budget type).
// @Summary     Set budget
// @Description Insert or overwrite the annual budget for a vendor, year and budget type
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id          path string              true "Vendor ID"
// @Param       year        path int                 true "Budget year"
// @Param       budget_type path string              true "residential, commercial or public"
// @Param       request     body UpsertBudgetRequest true "Budget amount"
// @Success     200 {object} models.VendorBudget "Budget saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vendor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors/{id}/budgets/{year}/{budget_type} [put]
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key, err := budgetKeyFromPath(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidBudgetAmount, err.Error()))
		return
	}

	budget, err := h.budgetService.UpsertBudget(c.Request.Context(), userID, key, *req.AnnualBudget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}
