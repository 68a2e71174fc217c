// Package remote is the client side of the budget tool backend: session
// management plus the vendor, budget and charge collections, all scoped by
// the server to the signed-in owner.
package remote

import (
	"context"
	"time"

	"budgettool/internal/models"
)

// Session is an authenticated session held by the client.
type Session struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Vendor is a vendor row as returned by the backend.
type Vendor struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	ContactName  *string   `json:"contact_name"`
	ContactEmail *string   `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
}

// Budget is the annual budget of one (vendor, year, budget type).
type Budget struct {
	ID           string            `json:"id"`
	VendorID     string            `json:"vendor_id"`
	Year         int               `json:"year"`
	BudgetType   models.BudgetType `json:"budget_type"`
	AnnualBudget float64           `json:"annual_budget"`
}

// Charge is a dated expense attributed to one (vendor, year, budget type).
type Charge struct {
	ID            string            `json:"id"`
	VendorID      string            `json:"vendor_id"`
	Year          int               `json:"year"`
	BudgetType    models.BudgetType `json:"budget_type"`
	ChargeDate    models.Date       `json:"charge_date"`
	Amount        float64           `json:"amount"`
	InvoiceNumber *string           `json:"invoice_number"`
	Notes         *string           `json:"notes"`
	CreatedAt     time.Time         `json:"created_at"`
}

// BudgetKey addresses a budget row and the charges attributed to it.
type BudgetKey struct {
	VendorID   string
	Year       int
	BudgetType models.BudgetType
}

// ChargeInput holds the user-supplied fields of a new charge.
type ChargeInput struct {
	ChargeDate    models.Date
	Amount        float64
	InvoiceNumber *string
	Notes         *string
}

// Store is the remote data and auth surface the views depend on.
type Store interface {
	// GetSession returns the current session, or nil when signed out.
	GetSession(ctx context.Context) (*Session, error)
	// OnSessionChange registers fn for every sign-in, sign-out and session
	// expiry. The returned func unregisters it.
	OnSessionChange(fn func(*Session)) (unsubscribe func())
	SignUp(ctx context.Context, email, password string) error
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error

	ListVendors(ctx context.Context) ([]Vendor, error)
	GetVendor(ctx context.Context, id string) (*Vendor, error)
	// CreateVendor creates the vendor together with its zero residential
	// budget for year.
	CreateVendor(ctx context.Context, name string, year int) (*Vendor, error)
	UpdateVendorContact(ctx context.Context, id string, contactName, contactEmail *string) (*Vendor, error)
	DeleteVendor(ctx context.Context, id string) error

	// GetBudget returns nil without error when no budget has been set for key.
	GetBudget(ctx context.Context, key BudgetKey) (*Budget, error)
	UpsertBudget(ctx context.Context, key BudgetKey, amount float64) (*Budget, error)

	ListCharges(ctx context.Context, key BudgetKey) ([]Charge, error)
	CreateCharge(ctx context.Context, key BudgetKey, input ChargeInput) (*Charge, error)
	DeleteCharge(ctx context.Context, id string) error
}
