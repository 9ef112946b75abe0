package recurring

import (
	"testing"
	"time"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func netflix() models.RecurringCharge {
	return models.RecurringCharge{
		ID:     "charge-netflix",
		Name:   "Netflix",
		Amount: decimal.NewFromFloat(12.99),
		DueDay: 5,
		Active: true,
	}
}

func TestReconcile_PostsDueCharge(t *testing.T) {
	registry := []models.RecurringCharge{netflix()}

	ledger, posted := Reconcile(nil, registry, date(2025, time.August, 10))

	assert.Equal(t, 1, posted)
	assert.Len(t, ledger, 1)

	e := ledger[0]
	assert.Equal(t, "2025-08-05", e.Date) // clamped to the due day
	assert.Equal(t, string(models.CategoryFallback), e.Category)
	assert.True(t, e.Amount.Equal(decimal.NewFromFloat(12.99)))
	assert.Equal(t, models.KindExpense, e.Kind)
	assert.Contains(t, e.Note, "Netflix")
	assert.Equal(t, "charge-netflix", e.Source)
}

func TestReconcile_LabelOverridesCategory(t *testing.T) {
	charge := netflix()
	charge.Label = "Installment"

	ledger, posted := Reconcile(nil, []models.RecurringCharge{charge}, date(2025, time.August, 10))

	assert.Equal(t, 1, posted)
	assert.Equal(t, "Installment", ledger[0].Category)
}

func TestReconcile_NotDueBeforeDueDay(t *testing.T) {
	registry := []models.RecurringCharge{netflix()}

	ledger, posted := Reconcile(nil, registry, date(2025, time.August, 4))

	assert.Equal(t, 0, posted)
	assert.Empty(t, ledger)
}

func TestReconcile_IdempotentWithinMonth(t *testing.T) {
	registry := []models.RecurringCharge{netflix()}

	first, posted := Reconcile(nil, registry, date(2025, time.August, 10))
	assert.Equal(t, 1, posted)

	second, posted := Reconcile(first, registry, date(2025, time.August, 20))
	assert.Equal(t, 0, posted)
	assert.Len(t, second, 1)
}

func TestReconcile_PostsAgainNextMonth(t *testing.T) {
	registry := []models.RecurringCharge{netflix()}

	august, _ := Reconcile(nil, registry, date(2025, time.August, 10))
	september, posted := Reconcile(august, registry, date(2025, time.September, 6))

	assert.Equal(t, 1, posted)
	assert.Len(t, september, 2)
	assert.Equal(t, "2025-09-05", september[1].Date)
}

func TestReconcile_InactiveNeverPosted(t *testing.T) {
	charge := netflix()
	charge.Active = false

	_, posted := Reconcile(nil, []models.RecurringCharge{charge}, date(2025, time.August, 31))

	assert.Equal(t, 0, posted)
}

func TestReconcile_MalformedChargeSkipped(t *testing.T) {
	bad := netflix()
	bad.DueDay = 0
	negative := netflix()
	negative.ID = "charge-negative"
	negative.Name = "Refundish"
	negative.Amount = decimal.NewFromInt(-5)

	_, posted := Reconcile(nil, []models.RecurringCharge{bad, negative}, date(2025, time.August, 31))

	assert.Equal(t, 0, posted)
}

func TestReconcile_MatchesBySourceNotName(t *testing.T) {
	charge := netflix()
	ledger := []models.Entry{{
		ID:       "existing",
		Date:     "2025-08-05",
		Category: "Subscription",
		Amount:   decimal.NewFromFloat(12.99),
		Note:     "renamed beyond recognition",
		Kind:     models.KindExpense,
		Source:   "charge-netflix",
	}}

	// The charge was renamed after posting; the Source relation still holds.
	charge.Name = "Netflix Premium"
	_, posted := Reconcile(ledger, []models.RecurringCharge{charge}, date(2025, time.August, 20))

	assert.Equal(t, 0, posted)
}

func TestReconcile_LegacyMarkerMatch(t *testing.T) {
	// Entries written before the Source column rely on the note marker,
	// matched case-insensitively.
	ledger := []models.Entry{{
		Date:   "2025-08-05",
		Amount: decimal.NewFromFloat(12.99),
		Note:   "auto: netflix",
		Kind:   models.KindExpense,
	}}

	_, posted := Reconcile(ledger, []models.RecurringCharge{netflix()}, date(2025, time.August, 20))

	assert.Equal(t, 0, posted)
}

func TestReconcile_SameMonthLastYearDoesNotCount(t *testing.T) {
	ledger := []models.Entry{{
		Date:   "2024-08-05",
		Amount: decimal.NewFromFloat(12.99),
		Note:   "AUTO: Netflix",
		Kind:   models.KindExpense,
		Source: "charge-netflix",
	}}

	_, posted := Reconcile(ledger, []models.RecurringCharge{netflix()}, date(2025, time.August, 10))

	assert.Equal(t, 1, posted)
}

func TestReconcile_DueDayBeyondMonthLengthNeverFires(t *testing.T) {
	charge := netflix()
	charge.DueDay = 31

	// September has 30 days; day 30 is the last chance and still < 31.
	ledger, posted := Reconcile(nil, []models.RecurringCharge{charge}, date(2025, time.September, 30))

	assert.Equal(t, 0, posted)
	assert.Empty(t, ledger)

	// In a 31-day month it fires on the 31st.
	ledger, posted = Reconcile(nil, []models.RecurringCharge{charge}, date(2025, time.August, 31))
	assert.Equal(t, 1, posted)
	assert.Equal(t, "2025-08-31", ledger[0].Date)
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	ledger := []models.Entry{{
		Date:   "2025-08-01",
		Amount: decimal.NewFromInt(10),
		Kind:   models.KindExpense,
	}}

	out, posted := Reconcile(ledger, []models.RecurringCharge{netflix()}, date(2025, time.August, 10))

	assert.Equal(t, 1, posted)
	assert.Len(t, ledger, 1)
	assert.Len(t, out, 2)
}

func TestReconcile_MalformedLedgerDateIgnored(t *testing.T) {
	ledger := []models.Entry{{
		Date: "not-a-date",
		Note: "AUTO: Netflix",
		Kind: models.KindExpense,
	}}

	_, posted := Reconcile(ledger, []models.RecurringCharge{netflix()}, date(2025, time.August, 10))

	assert.Equal(t, 1, posted)
}

func TestMonthlyCommitment(t *testing.T) {
	inactive := netflix()
	inactive.ID = "charge-gym"
	inactive.Name = "Gym"
	inactive.Active = false

	spotify := netflix()
	spotify.ID = "charge-spotify"
	spotify.Name = "Spotify"
	spotify.Amount = decimal.NewFromFloat(9.99)

	total := MonthlyCommitment([]models.RecurringCharge{netflix(), spotify, inactive})

	assert.True(t, total.Equal(decimal.NewFromFloat(22.98)), "got %s", total)
}
