package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgettool/internal/errors"
	"budgettool/internal/models"
	"budgettool/internal/services"
)

// ChargeHandler handles charge-related requests.
type ChargeHandler struct {
	chargeService services.ChargeServicer
}

// NewChargeHandler creates a new ChargeHandler.
func NewChargeHandler(chargeService services.ChargeServicer) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

// CreateChargeRequest represents the request payload for recording a charge.
type CreateChargeRequest struct {
	Year          int     `json:"year" binding:"required,min=1"`
	BudgetType    string  `json:"budget_type" binding:"required,budget_type"`
	ChargeDate    string  `json:"charge_date" binding:"required,iso_date"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	InvoiceNumber *string `json:"invoice_number" binding:"omitempty,max=100"`
	Notes         *string `json:"notes" binding:"omitempty,max=2000"`
}

// ListCharges handles listing the charges of a (vendor, year, budget type).
// @Summary     List charges
// @Description List a vendor's charges for a year and budget type, newest charge date first
// @Tags        charges
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  string true "Vendor ID"
// @Param       year        query int    true "Budget year"
// @Param       budget_type query string true "residential, commercial or public"
// @Success     200 {array}  models.Charge "Charges"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors/{id}/charges [get]
func (h *ChargeHandler) ListCharges(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYear(c.Query("year"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	bt, err := parseBudgetType(c.Query("budget_type"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	key := services.BudgetKey{VendorID: c.Param("id"), Year: year, BudgetType: bt}
	charges, err := h.chargeService.ListCharges(c.Request.Context(), userID, key)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"charges": charges})
}

// CreateCharge handles recording a charge.
// @Summary     Record a charge
// @Tags        charges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Vendor ID"
// @Param       request body CreateChargeRequest true "Charge details"
// @Success     201 {object} models.Charge "Charge recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vendor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors/{id}/charges [post]
func (h *ChargeHandler) CreateCharge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := models.ParseDate(req.ChargeDate)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidChargeDate)
		return
	}

	key := services.BudgetKey{VendorID: c.Param("id"), Year: req.Year, BudgetType: models.BudgetType(req.BudgetType)}
	charge, err := h.chargeService.CreateCharge(c.Request.Context(), userID, key, services.ChargeInput{
		ChargeDate:    date,
		Amount:        req.Amount,
		InvoiceNumber: req.InvoiceNumber,
		Notes:         req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"charge": charge})
}

// DeleteCharge handles deleting a charge.
// @Summary     Delete charge
// @Tags        charges
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Charge ID"
// @Success     200 {object} MessageResponse "Charge deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Charge not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /charges/{id} [delete]
func (h *ChargeHandler) DeleteCharge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.chargeService.DeleteCharge(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Charge deleted successfully"})
}
