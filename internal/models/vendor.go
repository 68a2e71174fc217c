package models

// Vendor is a billable counterparty for which budgets and charges are tracked.
type Vendor struct {
	Base
	OwnerID      string  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name         string  `gorm:"not null" json:"name"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`

	Budgets []VendorBudget `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
	Charges []Charge       `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
}
