package services

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "budgettool/internal/errors"
	"budgettool/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

func validateKey(key BudgetKey) error {
	if !key.BudgetType.Valid() {
		return apperrors.ErrInvalidBudgetType
	}
	if key.Year < 1 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be positive")
	}
	return nil
}

// GetBudget returns the budget stored for key, or nil if none has been set.
func (s *budgetService) GetBudget(ctx context.Context, ownerID string, key BudgetKey) (*models.VendorBudget, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var budget models.VendorBudget
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND vendor_id = ? AND year = ? AND budget_type = ?", ownerID, key.VendorID, key.Year, key.BudgetType).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpsertBudget writes the annual budget for key, inserting the row on first
// use and overwriting the amount afterwards.
func (s *budgetService) UpsertBudget(ctx context.Context, ownerID string, key BudgetKey, amount float64) (*models.VendorBudget, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, apperrors.ErrInvalidBudgetAmount
	}

	db := s.db.WithContext(ctx)
	if _, err := findVendor(db, ownerID, key.VendorID); err != nil {
		return nil, err
	}

	budget := &models.VendorBudget{
		OwnerID:      ownerID,
		VendorID:     key.VendorID,
		Year:         key.Year,
		BudgetType:   key.BudgetType,
		AnnualBudget: amount,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vendor_id"}, {Name: "year"}, {Name: "budget_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"annual_budget": amount,
			"updated_at":    time.Now(),
		}),
	}).Create(budget).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetBudget(ctx, ownerID, key)
}
