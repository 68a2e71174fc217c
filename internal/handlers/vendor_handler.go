package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgettool/internal/errors"
	"budgettool/internal/services"
)

// VendorHandler handles vendor-related requests.
type VendorHandler struct {
	vendorService services.VendorServicer
	defaultYear   func() int
}

// NewVendorHandler creates a new VendorHandler. defaultYear supplies the
// budget year seeded when a create request omits one.
func NewVendorHandler(vendorService services.VendorServicer, defaultYear func() int) *VendorHandler {
	return &VendorHandler{vendorService: vendorService, defaultYear: defaultYear}
}

// CreateVendorRequest represents the request payload for creating a vendor.
type CreateVendorRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Year int    `json:"year" binding:"omitempty,min=1"`
}

// UpdateVendorContactRequest represents the request payload for updating a
// vendor's contact. Omitted or blank fields are cleared.
type UpdateVendorContactRequest struct {
	ContactName  *string `json:"contact_name" binding:"omitempty,max=200"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,max=255"`
}

// ListVendors handles listing the caller's vendors.
// @Summary     List vendors
// @Description List the authenticated user's vendors in creation order
// @Tags        vendors
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Vendor "Vendors"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors [get]
func (h *VendorHandler) ListVendors(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	vendors, err := h.vendorService.ListVendors(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// CreateVendor handles vendor creation.
// @Summary     Create a vendor
// @Description Create a vendor and seed its zero residential budget for the given (or server default) year
// @Tags        vendors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateVendorRequest true "Vendor details"
// @Success     201 {object} models.Vendor "Vendor created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors [post]
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	year := req.Year
	if year == 0 {
		year = h.defaultYear()
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), userID, req.Name, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vendor": vendor})
}

// GetVendor handles fetching one vendor.
// @Summary     Get vendor
// @Tags        vendors
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Vendor ID"
// @Success     200 {object} models.Vendor "Vendor"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vendor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors/{id} [get]
func (h *VendorHandler) GetVendor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	vendor, err := h.vendorService.GetVendor(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// UpdateVendorContact handles contact updates.
// @Summary     Update vendor contact
// @Tags        vendors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                     true "Vendor ID"
// @Param       request body UpdateVendorContactRequest true "Contact details"
// @Success     200 {object} models.Vendor "Updated vendor"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vendor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors/{id} [patch]
func (h *VendorHandler) UpdateVendorContact(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateVendorContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	vendor, err := h.vendorService.UpdateVendorContact(c.Request.Context(), userID, c.Param("id"), req.ContactName, req.ContactEmail)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// DeleteVendor handles vendor deletion.
// @Summary     Delete vendor
// @Description Delete a vendor together with all of its budgets and charges
// @Tags        vendors
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Vendor ID"
// @Success     200 {object} MessageResponse "Vendor deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Vendor not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors/{id} [delete]
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.vendorService.DeleteVendor(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted successfully"})
}
