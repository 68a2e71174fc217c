package models

// Charge is a dated expense recorded against a vendor's budget.
type Charge struct {
	Base
	OwnerID       string     `gorm:"type:uuid;not null;index" json:"owner_id"`
	VendorID      string     `gorm:"type:uuid;not null;index:idx_charges_scope" json:"vendor_id"`
	Year          int        `gorm:"not null;index:idx_charges_scope" json:"year"`
	BudgetType    BudgetType `gorm:"not null;index:idx_charges_scope" json:"budget_type"`
	ChargeDate    Date       `gorm:"type:date;not null" json:"charge_date"`
	Amount        float64    `gorm:"not null" json:"amount"`
	InvoiceNumber *string    `json:"invoice_number"`
	Notes         *string    `json:"notes"`
}
