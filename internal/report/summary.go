package report

import (
	"sort"
	"time"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/csvparse"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
	"github.com/shopspring/decimal"
)

// MonthSummary aggregates one month of ledger activity.
type MonthSummary struct {
	Year              int                        `json:"year"`
	Month             int                        `json:"month"`
	TotalIncome       decimal.Decimal            `json:"total_income"`
	TotalExpense      decimal.Decimal            `json:"total_expense"`
	Balance           decimal.Decimal            `json:"balance"`
	ExpenseByCategory map[string]decimal.Decimal `json:"expense_by_category"`
	IncomeByCategory  map[string]decimal.Decimal `json:"income_by_category"`
}

// Summarize filters entries to the given year and month and sums amounts per
// kind and per category. An empty month yields zero totals and empty maps.
// Entries with unparseable dates are excluded rather than failing the batch.
func Summarize(entries []models.Entry, year int, month time.Month) MonthSummary {
	s := MonthSummary{
		Year:              year,
		Month:             int(month),
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		Balance:           decimal.Zero,
		ExpenseByCategory: map[string]decimal.Decimal{},
		IncomeByCategory:  map[string]decimal.Decimal{},
	}

	for _, e := range entries {
		d, err := time.Parse(csvparse.DateFormat, e.Date)
		if err != nil || d.Year() != year || d.Month() != month {
			continue
		}

		switch e.Kind {
		case models.KindIncome:
			s.TotalIncome = s.TotalIncome.Add(e.Amount)
			addToCategory(s.IncomeByCategory, e.Category, e.Amount)
		case models.KindExpense:
			s.TotalExpense = s.TotalExpense.Add(e.Amount)
			addToCategory(s.ExpenseByCategory, e.Category, e.Amount)
		}
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// LatestEntries returns up to n entries from the given month, newest first.
// Ties on date keep their ledger order.
func LatestEntries(entries []models.Entry, year int, month time.Month, n int) []models.Entry {
	monthly := []models.Entry{}
	for _, e := range entries {
		d, err := time.Parse(csvparse.DateFormat, e.Date)
		if err != nil || d.Year() != year || d.Month() != month {
			continue
		}
		monthly = append(monthly, e)
	}

	sort.SliceStable(monthly, func(i, j int) bool {
		return monthly[i].Date > monthly[j].Date
	})

	if n >= 0 && len(monthly) > n {
		monthly = monthly[:n]
	}
	return monthly
}

func addToCategory(m map[string]decimal.Decimal, category string, amount decimal.Decimal) {
	cat := category
	if cat == "" {
		cat = string(models.CategoryOther)
	}
	total, ok := m[cat]
	if !ok {
		total = decimal.Zero
	}
	m[cat] = total.Add(amount)
}
