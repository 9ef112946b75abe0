package handler

import (
	"log/slog"
	"net/http"
)

// HandleNightlyTrigger is the scheduled entry point for reconciliation.
// The Functions host invokes it on a timer; the work is the same as a
// POST to /api/reconcile.
func (d *Dependencies) HandleNightlyTrigger(w http.ResponseWriter, r *http.Request) {
	slog.Info("starting nightly reconciliation")

	posted, err := d.runReconciliation(r.Context(), "nightly")
	if err != nil {
		slog.Error("nightly reconciliation failed", "error", err)
		http.Error(w, "Reconciliation failed", http.StatusInternalServerError)
		return
	}

	slog.Info("nightly reconciliation complete", "posted", posted)
	w.WriteHeader(http.StatusOK)
}
