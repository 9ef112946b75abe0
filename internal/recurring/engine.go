package recurring

import (
	"strings"
	"time"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/csvparse"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
	"github.com/shopspring/decimal"
)

// Reconcile scans the registry against the ledger and appends one synthesized
// expense entry per charge that is active, due on or before ref, and not yet
// posted within ref's month. It returns a new slice plus the number of
// entries appended; the inputs are never mutated.
//
// Running it twice in the same month is a no-op the second time: the entries
// appended by the first run satisfy the already-posted check. Renaming a
// charge does not re-trigger posting, because matching goes through the
// charge ID carried in Entry.Source; only legacy entries with an empty
// Source fall back to matching the "AUTO: <name>" note marker.
func Reconcile(ledger []models.Entry, registry []models.RecurringCharge, ref time.Time) ([]models.Entry, int) {
	out := make([]models.Entry, len(ledger), len(ledger)+len(registry))
	copy(out, ledger)

	posted := 0
	for _, charge := range registry {
		if !charge.Active || !charge.WellFormed() {
			continue
		}

		// Due only once the due day has passed. A DueDay beyond the
		// month's length can never satisfy this, so such charges do not
		// fire that month.
		if ref.Day() < charge.DueDay {
			continue
		}

		if postedInMonth(out, charge, ref.Year(), ref.Month()) {
			continue
		}

		out = append(out, models.Entry{
			Date:     postingDate(charge.DueDay, ref),
			Category: charge.EntryCategory(),
			Amount:   charge.Amount,
			Note:     charge.AutoNote(),
			Kind:     models.KindExpense,
			Source:   charge.ID,
		})
		posted++
	}

	return out, posted
}

// MonthlyCommitment sums the amounts of all active, well-formed charges.
func MonthlyCommitment(registry []models.RecurringCharge) decimal.Decimal {
	total := decimal.Zero
	for _, charge := range registry {
		if charge.Active && charge.WellFormed() {
			total = total.Add(charge.Amount)
		}
	}
	return total
}

// postedInMonth reports whether the ledger already holds an entry for the
// charge dated within the given month.
func postedInMonth(ledger []models.Entry, charge models.RecurringCharge, year int, month time.Month) bool {
	marker := strings.ToLower(charge.AutoNote())
	for _, e := range ledger {
		d, err := time.Parse(csvparse.DateFormat, e.Date)
		if err != nil || d.Year() != year || d.Month() != month {
			continue
		}
		if e.Source != "" {
			if e.Source == charge.ID {
				return true
			}
			continue
		}
		if strings.Contains(strings.ToLower(e.Note), marker) {
			return true
		}
	}
	return false
}

// postingDate places the synthesized entry on the due day within ref's
// month, falling back to ref itself when the month is too short.
func postingDate(dueDay int, ref time.Time) string {
	if dueDay <= daysIn(ref.Year(), ref.Month()) {
		d := time.Date(ref.Year(), ref.Month(), dueDay, 0, 0, 0, 0, time.UTC)
		return d.Format(csvparse.DateFormat)
	}
	return ref.Format(csvparse.DateFormat)
}

func daysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
