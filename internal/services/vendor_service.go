package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"budgettool/internal/cache"
	apperrors "budgettool/internal/errors"
	"budgettool/internal/logger"
	"budgettool/internal/models"
)

// vendorService handles vendor-related business logic.
type vendorService struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
}

// NewVendorService creates a new VendorServicer. A nil cache disables caching.
func NewVendorService(db *gorm.DB, c cache.Cache, ttl time.Duration) VendorServicer {
	if c == nil {
		c = cache.NewNoop()
	}
	return &vendorService{db: db, cache: c, ttl: ttl}
}

// ListVendors returns the owner's vendors in insertion order.
//
// The generation is read before the database, so a list filled after a
// concurrent write is stored under the generation that write retired.
func (s *vendorService) ListVendors(ctx context.Context, ownerID string) ([]models.Vendor, error) {
	log := logger.Named("vendors")

	var gen int64
	_, genErr := s.cache.Get(ctx, cache.VendorListGenKey(ownerID), &gen)
	if genErr != nil {
		log.Warnw("vendor list generation read failed, bypassing cache", "owner_id", ownerID, "error", genErr)
	}
	key := cache.VendorListKey(ownerID, gen)

	var vendors []models.Vendor
	if genErr == nil {
		hit, err := s.cache.Get(ctx, key, &vendors)
		if err != nil {
			log.Warnw("vendor list cache read failed", "owner_id", ownerID, "error", err)
		}
		if hit {
			return vendors, nil
		}
	}

	vendors = []models.Vendor{}
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").Order("id ASC").
		Find(&vendors).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if genErr == nil {
		if err := s.cache.Set(ctx, key, vendors, s.ttl); err != nil {
			log.Warnw("vendor list cache write failed", "owner_id", ownerID, "error", err)
		}
	}
	return vendors, nil
}

// GetVendor returns a vendor by ID if it belongs to the owner.
func (s *vendorService) GetVendor(ctx context.Context, ownerID, vendorID string) (*models.Vendor, error) {
	return findVendor(s.db.WithContext(ctx), ownerID, vendorID)
}

func findVendor(db *gorm.DB, ownerID, vendorID string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := db.Where("id = ? AND owner_id = ?", vendorID, ownerID).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVendorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &vendor, nil
}

// CreateVendor inserts a vendor together with its zero residential budget for
// year. Either both rows are written or neither is.
func (s *vendorService) CreateVendor(ctx context.Context, ownerID, name string, year int) (*models.Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrVendorNameBlank
	}
	if year < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be positive")
	}

	vendor := &models.Vendor{OwnerID: ownerID, Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vendor).Error; err != nil {
			return err
		}
		seed := &models.VendorBudget{
			OwnerID:      ownerID,
			VendorID:     vendor.ID,
			Year:         year,
			BudgetType:   models.DefaultBudgetType,
			AnnualBudget: 0,
		}
		return tx.Create(seed).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.invalidate(ctx, ownerID)
	return vendor, nil
}

// UpdateVendorContact sets the contact fields. Nil or blank values clear them.
func (s *vendorService) UpdateVendorContact(ctx context.Context, ownerID, vendorID string, contactName, contactEmail *string) (*models.Vendor, error) {
	db := s.db.WithContext(ctx)
	vendor, err := findVendor(db, ownerID, vendorID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"contact_name":  normalizeOptional(contactName),
		"contact_email": normalizeOptional(contactEmail),
	}
	if err := db.Model(vendor).Where("owner_id = ?", ownerID).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	vendor.ContactName = normalizeOptional(contactName)
	vendor.ContactEmail = normalizeOptional(contactEmail)

	s.invalidate(ctx, ownerID)
	return vendor, nil
}

// DeleteVendor removes a vendor and every budget and charge attached to it.
func (s *vendorService) DeleteVendor(ctx context.Context, ownerID, vendorID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findVendor(tx, ownerID, vendorID); err != nil {
			return err
		}
		if err := tx.Where("vendor_id = ? AND owner_id = ?", vendorID, ownerID).Delete(&models.Charge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vendor_id = ? AND owner_id = ?", vendorID, ownerID).Delete(&models.VendorBudget{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND owner_id = ?", vendorID, ownerID).Delete(&models.Vendor{}).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.invalidate(ctx, ownerID)
	return nil
}

func (s *vendorService) invalidate(ctx context.Context, ownerID string) {
	if _, err := s.cache.Incr(ctx, cache.VendorListGenKey(ownerID)); err != nil {
		logger.Named("vendors").Warnw("vendor list cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}

// normalizeOptional trims s and maps empty strings to nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
