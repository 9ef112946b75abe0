package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/report"
)

// HandleSummary returns the monthly aggregates for the requested month.
func (d *Dependencies) HandleSummary(w http.ResponseWriter, r *http.Request) {
	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		WriteError(w, http.StatusBadRequest, "month parameter is required")
		return
	}

	year, month, err := parseMonth(monthStr)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "month must be in YYYY-MM form")
		return
	}

	entries, err := d.Ledger.Load(r.Context())
	if err != nil {
		slog.Error("failed to load ledger", "month", monthStr, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load ledger: "+err.Error())
		return
	}

	summary := report.Summarize(entries, year, month)

	// Optional tail of recent movements, like the dashboard shows.
	limit := 5
	if limitStr := r.URL.Query().Get("latest"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n >= 0 {
			limit = n
		}
	}
	latest := report.LatestEntries(entries, year, month, limit)

	slog.Info("summarized month", "month", monthStr,
		"income", summary.TotalIncome.StringFixed(2),
		"expense", summary.TotalExpense.StringFixed(2))

	WriteJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
		"latest":  latest,
	})
}
