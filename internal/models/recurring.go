package models

import (
	"github.com/shopspring/decimal"
)

// AutoNoteMarker prefixes the note of every entry synthesized from a
// recurring charge, so the rows stay recognizable in the raw CSV.
const AutoNoteMarker = "AUTO: "

// RecurringCharge is a template for a monthly obligation (subscription,
// installment) that the reconciler turns into ledger entries.
type RecurringCharge struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	// DueDay is the day of month (1-31) on which the charge becomes due.
	DueDay int `json:"due_day"`
	// Label overrides the category of synthesized entries; empty means
	// CategoryFallback.
	Label  string `json:"label,omitempty"`
	Active bool   `json:"active"`
}

// WellFormed reports whether the charge can be reconciled at all.
// Malformed charges are skipped, never fatal.
func (c RecurringCharge) WellFormed() bool {
	return c.DueDay >= 1 && c.DueDay <= 31 && !c.Amount.IsNegative()
}

// EntryCategory returns the category a synthesized entry should carry.
func (c RecurringCharge) EntryCategory() string {
	if c.Label != "" {
		return c.Label
	}
	return string(CategoryFallback)
}

// AutoNote returns the display note written on synthesized entries.
func (c RecurringCharge) AutoNote() string {
	return AutoNoteMarker + c.Name
}
