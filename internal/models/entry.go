package models

import (
	"github.com/shopspring/decimal"
)

// EntryKind distinguishes money coming in from money going out.
type EntryKind string

const (
	KindIncome  EntryKind = "Income"
	KindExpense EntryKind = "Expense"
)

// Valid reports whether k is one of the two known kinds.
func (k EntryKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Entry represents a single ledger movement.
// Date is a civil date in "2006-01-02" form; Amount is always non-negative,
// with Kind deciding the sign during aggregation.
type Entry struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
	Kind     EntryKind       `json:"kind"`
	// Source holds the ID of the recurring charge that synthesized this
	// entry. Empty for entries created by hand or imported.
	Source string `json:"source,omitempty"`
}
