package views

import (
	"github.com/shopspring/decimal"

	"budgettool/internal/remote"
)

// Totals is the budget summary of the charges currently loaded.
type Totals struct {
	Budget    decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

// ComputeTotals sums charges against budget. Amounts are added as decimals
// so repeated cents never drift.
func ComputeTotals(budget float64, charges []remote.Charge) Totals {
	spent := decimal.Zero
	for _, c := range charges {
		spent = spent.Add(decimal.NewFromFloat(c.Amount))
	}
	b := decimal.NewFromFloat(budget)
	return Totals{Budget: b, Spent: spent, Remaining: b.Sub(spent)}
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
