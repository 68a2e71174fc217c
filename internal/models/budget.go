package models

// VendorBudget is the annual budget ceiling for one (vendor, year, budget type).
type VendorBudget struct {
	Base
	OwnerID      string     `gorm:"type:uuid;not null;index" json:"owner_id"`
	VendorID     string     `gorm:"type:uuid;not null;uniqueIndex:idx_vendor_budget_key" json:"vendor_id"`
	Year         int        `gorm:"not null;uniqueIndex:idx_vendor_budget_key" json:"year"`
	BudgetType   BudgetType `gorm:"not null;default:residential;uniqueIndex:idx_vendor_budget_key" json:"budget_type"`
	AnnualBudget float64    `gorm:"not null;default:0" json:"annual_budget"`
}

// TableName pins the collection name used by the migrations.
func (VendorBudget) TableName() string {
	return "vendor_budgets"
}
