package services

import (
	"context"

	"budgettool/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	SignUp(ctx context.Context, email, password string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error
	GetRefreshTokenHash(ctx context.Context, userID string) (string, error)
	ClearRefreshTokenHash(ctx context.Context, userID string) error
}

// VendorServicer defines the contract for vendor-related business logic.
// Every method is scoped to ownerID; rows of other owners read as not found.
type VendorServicer interface {
	ListVendors(ctx context.Context, ownerID string) ([]models.Vendor, error)
	GetVendor(ctx context.Context, ownerID, vendorID string) (*models.Vendor, error)
	CreateVendor(ctx context.Context, ownerID, name string, year int) (*models.Vendor, error)
	UpdateVendorContact(ctx context.Context, ownerID, vendorID string, contactName, contactEmail *string) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, ownerID, vendorID string) error
}

// BudgetKey identifies one budget row and the charges attributed to it.
type BudgetKey struct {
	VendorID   string
	Year       int
	BudgetType models.BudgetType
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	// GetBudget returns nil without error when no row exists for key.
	GetBudget(ctx context.Context, ownerID string, key BudgetKey) (*models.VendorBudget, error)
	UpsertBudget(ctx context.Context, ownerID string, key BudgetKey, amount float64) (*models.VendorBudget, error)
}

// ChargeInput holds the user-supplied fields of a new charge.
type ChargeInput struct {
	ChargeDate    models.Date
	Amount        float64
	InvoiceNumber *string
	Notes         *string
}

// ChargeServicer defines the contract for charge-related business logic.
type ChargeServicer interface {
	ListCharges(ctx context.Context, ownerID string, key BudgetKey) ([]models.Charge, error)
	CreateCharge(ctx context.Context, ownerID string, key BudgetKey, input ChargeInput) (*models.Charge, error)
	DeleteCharge(ctx context.Context, ownerID, chargeID string) error
}
