package services

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	apperrors "budgettool/internal/errors"
	"budgettool/internal/models"
)

// chargeService handles charge-related business logic.
type chargeService struct {
	db *gorm.DB
}

// NewChargeService creates a new ChargeServicer.
func NewChargeService(db *gorm.DB) ChargeServicer {
	return &chargeService{db: db}
}

// ListCharges returns the charges attributed to key, newest charge date first
// and, within a day, most recently recorded first.
func (s *chargeService) ListCharges(ctx context.Context, ownerID string, key BudgetKey) ([]models.Charge, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	charges := []models.Charge{}
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND vendor_id = ? AND year = ? AND budget_type = ?", ownerID, key.VendorID, key.Year, key.BudgetType).
		Order("charge_date DESC").Order("created_at DESC").Order("id DESC").
		Find(&charges).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return charges, nil
}

// CreateCharge records a charge against key.
func (s *chargeService) CreateCharge(ctx context.Context, ownerID string, key BudgetKey, input ChargeInput) (*models.Charge, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if input.ChargeDate.IsZero() {
		return nil, apperrors.ErrInvalidChargeDate
	}
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount <= 0 {
		return nil, apperrors.ErrInvalidChargeAmount
	}

	db := s.db.WithContext(ctx)
	if _, err := findVendor(db, ownerID, key.VendorID); err != nil {
		return nil, err
	}

	charge := &models.Charge{
		OwnerID:       ownerID,
		VendorID:      key.VendorID,
		Year:          key.Year,
		BudgetType:    key.BudgetType,
		ChargeDate:    input.ChargeDate,
		Amount:        input.Amount,
		InvoiceNumber: normalizeOptional(input.InvoiceNumber),
		Notes:         normalizeOptional(input.Notes),
	}
	if err := db.Create(charge).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return charge, nil
}

// DeleteCharge removes a charge owned by ownerID.
func (s *chargeService) DeleteCharge(ctx context.Context, ownerID, chargeID string) error {
	db := s.db.WithContext(ctx)

	var charge models.Charge
	if err := db.Where("id = ? AND owner_id = ?", chargeID, ownerID).First(&charge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrChargeNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := db.Where("id = ? AND owner_id = ?", chargeID, ownerID).Delete(&models.Charge{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
