package models

// BudgetType partitions a vendor's budgets and charges.
type BudgetType string

const (
	BudgetTypeResidential BudgetType = "residential"
	BudgetTypeCommercial  BudgetType = "commercial"
	BudgetTypePublic      BudgetType = "public"
)

// BudgetTypes lists every category in display order.
var BudgetTypes = []BudgetType{BudgetTypeResidential, BudgetTypeCommercial, BudgetTypePublic}

// DefaultBudgetType is the category seeded for new vendors and shown first.
const DefaultBudgetType = BudgetTypeResidential

// Valid reports whether t is one of the fixed categories.
func (t BudgetType) Valid() bool {
	switch t {
	case BudgetTypeResidential, BudgetTypeCommercial, BudgetTypePublic:
		return true
	}
	return false
}

// Label returns the human-readable tab label.
func (t BudgetType) Label() string {
	switch t {
	case BudgetTypeResidential:
		return "Residential"
	case BudgetTypeCommercial:
		return "Commercial"
	case BudgetTypePublic:
		return "Public"
	}
	return string(t)
}
