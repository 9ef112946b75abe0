package csvparse

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
	"github.com/shopspring/decimal"
)

// DateFormat is the civil date layout used in both CSV files.
const DateFormat = "2006-01-02"

// Current headers. V1 files predate the Source column on the ledger and
// the ID/Label/Active columns on the registry; ParseLedger and
// ParseRegistry migrate them to the current shape once, at load time.
var (
	LedgerHeader   = []string{"Date", "Category", "Amount", "Note", "Kind", "Source"}
	RegistryHeader = []string{"ID", "Name", "Amount", "DueDay", "Label", "Active"}
)

// chargeNamespace is the UUIDv5 namespace for IDs of registry rows that
// predate the ID column. Deriving the ID from the name keeps migration
// stable across loads, so Source references on the ledger still resolve.
var chargeNamespace = uuid.MustParse("9f2c1df6-5a9e-4de4-8f1c-2b3f7a60c8d1")

// ParseLedger parses ledger entries from a CSV string.
// It returns the entries and a list of error messages for invalid rows;
// a bad row never fails the batch. An empty or header-only file yields an
// empty ledger.
func ParseLedger(content string) ([]models.Entry, []string) {
	rows, headers, errs := readRows(content)
	if rows == nil {
		return []models.Entry{}, errs
	}

	entries := []models.Entry{}
	for i, row := range rows {
		rowNum := i + 2
		m := rowMap(headers, row)

		e, err := mapToEntry(m)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		entries = append(entries, *e)
	}

	AssignEntryIDs(entries)
	return entries, errs
}

// ParseRegistry parses recurring charges from a CSV string, migrating
// legacy rows to the current schema.
func ParseRegistry(content string) ([]models.RecurringCharge, []string) {
	rows, headers, errs := readRows(content)
	if rows == nil {
		return []models.RecurringCharge{}, errs
	}

	charges := []models.RecurringCharge{}
	for i, row := range rows {
		rowNum := i + 2
		m := rowMap(headers, row)

		c, err := mapToCharge(m)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		charges = append(charges, *c)
	}

	return charges, errs
}

// WriteLedger renders entries as a CSV document with the current header.
// Entry IDs are derived at load, not persisted.
func WriteLedger(entries []models.Entry) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write(LedgerHeader)
	for _, e := range entries {
		w.Write([]string{
			e.Date,
			e.Category,
			e.Amount.StringFixed(2),
			e.Note,
			string(e.Kind),
			e.Source,
		})
	}
	w.Flush()
	return sb.String()
}

// WriteRegistry renders recurring charges as a CSV document.
func WriteRegistry(charges []models.RecurringCharge) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write(RegistryHeader)
	for _, c := range charges {
		w.Write([]string{
			c.ID,
			c.Name,
			c.Amount.StringFixed(2),
			strconv.Itoa(c.DueDay),
			c.Label,
			strconv.FormatBool(c.Active),
		})
	}
	w.Flush()
	return sb.String()
}

// AssignEntryIDs sets a deterministic ID on every entry, derived from the
// row's content plus its occurrence index among identical rows. The same
// file always yields the same IDs, so callers can address rows across
// load/save cycles without a persisted key column.
func AssignEntryIDs(entries []models.Entry) {
	occurrences := make(map[string]int)
	for i := range entries {
		sig := Signature(entries[i])
		idx := occurrences[sig]
		occurrences[sig] = idx + 1

		h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", sig, idx)))
		entries[i].ID = hex.EncodeToString(h[:])
	}
}

// Signature returns the content key of an entry, used for derived IDs and
// for deduplicating imported rows against the ledger.
func Signature(e models.Entry) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", e.Date, e.Category, e.Amount.String(), e.Note, e.Kind)
}

// LegacyChargeID returns the stable ID assigned to a registry row that
// predates the ID column.
func LegacyChargeID(name string) string {
	return uuid.NewSHA1(chargeNamespace, []byte(strings.ToLower(name))).String()
}

func readRows(content string) ([][]string, []string, []string) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, []string{fmt.Sprintf("Failed to read CSV: %v", err)}
	}

	if len(records) < 2 {
		return nil, nil, nil // Empty or header-only
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return records[1:], headers, nil
}

func rowMap(headers, record []string) map[string]string {
	m := make(map[string]string)
	for j, header := range headers {
		if j < len(record) {
			m[header] = strings.TrimSpace(record[j])
		}
	}
	return m
}

func mapToEntry(row map[string]string) (*models.Entry, error) {
	dateStr := row["Date"]
	if dateStr == "" {
		return nil, fmt.Errorf("missing Date")
	}
	if _, err := time.Parse(DateFormat, dateStr); err != nil {
		return nil, fmt.Errorf("invalid Date format: %s", dateStr)
	}

	amountStr := row["Amount"]
	if amountStr == "" {
		return nil, fmt.Errorf("missing Amount")
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Amount: %s", amountStr)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("negative Amount: %s", amountStr)
	}

	kind := canonicalKind(row["Kind"])
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid Kind: %s", row["Kind"])
	}

	return &models.Entry{
		Date:     dateStr,
		Category: row["Category"],
		Amount:   amount,
		Note:     row["Note"],
		Kind:     kind,
		Source:   row["Source"], // empty for v1 files
	}, nil
}

func mapToCharge(row map[string]string) (*models.RecurringCharge, error) {
	name := row["Name"]
	if name == "" {
		return nil, fmt.Errorf("missing Name")
	}

	amountStr := row["Amount"]
	if amountStr == "" {
		return nil, fmt.Errorf("missing Amount")
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Amount: %s", amountStr)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("negative Amount: %s", amountStr)
	}

	dueStr := row["DueDay"]
	if dueStr == "" {
		return nil, fmt.Errorf("missing DueDay")
	}
	dueDay, err := strconv.Atoi(dueStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DueDay: %s", dueStr)
	}
	if dueDay < 1 || dueDay > 31 {
		return nil, fmt.Errorf("DueDay out of range: %d", dueDay)
	}

	// V1 files have no Active column; missing means active.
	active := true
	if activeStr := row["Active"]; activeStr != "" {
		active, err = strconv.ParseBool(activeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid Active: %s", activeStr)
		}
	}

	id := row["ID"]
	if id == "" {
		id = LegacyChargeID(name)
	}

	return &models.RecurringCharge{
		ID:     id,
		Name:   name,
		Amount: amount,
		DueDay: dueDay,
		Label:  row["Label"], // empty for v1 files
		Active: active,
	}, nil
}

func canonicalKind(s string) models.EntryKind {
	switch strings.ToLower(s) {
	case "income":
		return models.KindIncome
	case "expense":
		return models.KindExpense
	default:
		return models.EntryKind(s)
	}
}
