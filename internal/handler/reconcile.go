package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/csvparse"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/recurring"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/services"
)

// HandleReconcile runs the recurring-charge reconciliation on demand.
func (d *Dependencies) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	posted, err := d.runReconciliation(r.Context(), "api")
	if err != nil {
		slog.Error("reconciliation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Reconciliation failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{"posted": posted})
}

// HandleRuns lists the reconciliation runs recorded for a month.
func (d *Dependencies) HandleRuns(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		WriteError(w, http.StatusBadRequest, "month parameter is required")
		return
	}
	if _, _, err := parseMonth(month); err != nil {
		WriteError(w, http.StatusBadRequest, "month must be in YYYY-MM form")
		return
	}

	if d.RunLog == nil {
		WriteError(w, http.StatusServiceUnavailable, "Run log is not configured")
		return
	}

	runs, err := d.RunLog.ListRuns(r.Context(), month)
	if err != nil {
		slog.Error("failed to list reconcile runs", "month", month, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to list runs: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, runs)
}

// runReconciliation loads both collections, evaluates the due-set at the
// current time, and persists the ledger only when something was posted.
// The run is recorded in the audit log either way; a logging failure never
// fails the run.
func (d *Dependencies) runReconciliation(ctx context.Context, trigger string) (int, error) {
	entries, err := d.Ledger.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load ledger: %w", err)
	}

	charges, err := d.Registry.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load recurring charges: %w", err)
	}

	now := time.Now()
	updated, posted := recurring.Reconcile(entries, charges, now)
	slog.Info("reconciliation evaluated", "trigger", trigger, "charges", len(charges), "posted", posted)

	if posted > 0 {
		csvparse.AssignEntryIDs(updated)
		if err := d.Ledger.Save(ctx, updated); err != nil {
			return 0, fmt.Errorf("failed to save ledger: %w", err)
		}
	}

	if d.RunLog != nil {
		run := services.ReconcileRun{
			Timestamp: now.Format(time.RFC3339),
			Trigger:   trigger,
			Posted:    posted,
		}
		if err := d.RunLog.RecordRun(ctx, run); err != nil {
			slog.Warn("failed to record reconcile run", "trigger", trigger, "error", err)
		}
	}

	return posted, nil
}
