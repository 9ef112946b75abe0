package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/csvparse"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
	"github.com/shopspring/decimal"
)

// HandleEntries handles GET, POST, and DELETE requests for ledger entries.
func (d *Dependencies) HandleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		d.listEntries(w, r)
	case http.MethodPost:
		d.addEntry(w, r)
	case http.MethodDelete:
		d.deleteEntry(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (d *Dependencies) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := d.Ledger.Load(r.Context())
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load ledger: "+err.Error())
		return
	}

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		year, month, err := parseMonth(monthStr)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "month must be in YYYY-MM form")
			return
		}

		filtered := []models.Entry{}
		for _, e := range entries {
			t, err := time.Parse(csvparse.DateFormat, e.Date)
			if err == nil && t.Year() == year && t.Month() == month {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	slog.Info("listing ledger entries", "count", len(entries))
	WriteJSON(w, http.StatusOK, entries)
}

func (d *Dependencies) addEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		slog.Warn("invalid entry request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if entry.Date == "" {
		entry.Date = time.Now().Format(csvparse.DateFormat)
	}
	if _, err := time.Parse(csvparse.DateFormat, entry.Date); err != nil {
		WriteError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD form")
		return
	}
	if !entry.Kind.Valid() {
		WriteError(w, http.StatusBadRequest, "kind must be Income or Expense")
		return
	}
	if !entry.Amount.GreaterThan(decimal.Zero) {
		WriteError(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}
	// Manual entries never reference a recurring charge.
	entry.Source = ""
	if entry.Category == "" {
		entry.Category = string(models.CategoryOther)
	}

	entries, err := d.Ledger.Load(r.Context())
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load ledger: "+err.Error())
		return
	}

	entries = append(entries, entry)
	csvparse.AssignEntryIDs(entries)

	if err := d.Ledger.Save(r.Context(), entries); err != nil {
		slog.Error("failed to save ledger", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to save ledger: "+err.Error())
		return
	}

	saved := entries[len(entries)-1]
	slog.Info("added ledger entry", "category", saved.Category, "amount", saved.Amount.StringFixed(2), "kind", saved.Kind)
	WriteJSON(w, http.StatusOK, saved)
}

func (d *Dependencies) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing entry ID")
		return
	}

	entries, err := d.Ledger.Load(r.Context())
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load ledger: "+err.Error())
		return
	}

	kept := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	if len(kept) == len(entries) {
		WriteError(w, http.StatusNotFound, "Entry not found")
		return
	}

	if err := d.Ledger.Save(r.Context(), kept); err != nil {
		slog.Error("failed to save ledger", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to save ledger: "+err.Error())
		return
	}

	slog.Info("deleted ledger entry", "id", id)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
