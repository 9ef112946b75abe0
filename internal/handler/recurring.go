package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/recurring"
	"github.com/shopspring/decimal"
)

// recurringListResponse pairs the registry with the total monthly
// commitment of its active charges.
type recurringListResponse struct {
	Charges           []models.RecurringCharge `json:"charges"`
	MonthlyCommitment decimal.Decimal          `json:"monthly_commitment"`
}

// HandleRecurring handles GET, POST, and DELETE requests for recurring
// charges.
func (d *Dependencies) HandleRecurring(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		d.listRecurring(w, r)
	case http.MethodPost:
		d.saveRecurring(w, r)
	case http.MethodDelete:
		d.deleteRecurring(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (d *Dependencies) listRecurring(w http.ResponseWriter, r *http.Request) {
	charges, err := d.Registry.Load(r.Context())
	if err != nil {
		slog.Error("failed to load recurring charges", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load recurring charges: "+err.Error())
		return
	}

	slog.Info("listing recurring charges", "count", len(charges))
	WriteJSON(w, http.StatusOK, recurringListResponse{
		Charges:           charges,
		MonthlyCommitment: recurring.MonthlyCommitment(charges),
	})
}

func (d *Dependencies) saveRecurring(w http.ResponseWriter, r *http.Request) {
	var charge models.RecurringCharge
	if err := json.NewDecoder(r.Body).Decode(&charge); err != nil {
		slog.Warn("invalid recurring charge request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if charge.Name == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !charge.Amount.GreaterThan(decimal.Zero) {
		WriteError(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}
	if charge.DueDay < 1 || charge.DueDay > 31 {
		WriteError(w, http.StatusBadRequest, "due_day must be between 1 and 31")
		return
	}

	if charge.ID == "" {
		charge.ID = uuid.New().String()
	}

	charges, err := d.Registry.Load(r.Context())
	if err != nil {
		slog.Error("failed to load recurring charges", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load recurring charges: "+err.Error())
		return
	}

	// Upsert by ID.
	replaced := false
	for i := range charges {
		if charges[i].ID == charge.ID {
			charges[i] = charge
			replaced = true
			break
		}
	}
	if !replaced {
		charges = append(charges, charge)
	}

	if err := d.Registry.Save(r.Context(), charges); err != nil {
		slog.Error("failed to save recurring charges", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to save recurring charges: "+err.Error())
		return
	}

	slog.Info("saved recurring charge", "name", charge.Name, "due_day", charge.DueDay, "id", charge.ID)
	WriteJSON(w, http.StatusOK, charge)
}

func (d *Dependencies) deleteRecurring(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	name := r.URL.Query().Get("name")
	if id == "" && name == "" {
		WriteError(w, http.StatusBadRequest, "Missing charge id or name")
		return
	}

	charges, err := d.Registry.Load(r.Context())
	if err != nil {
		slog.Error("failed to load recurring charges", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load recurring charges: "+err.Error())
		return
	}

	kept := make([]models.RecurringCharge, 0, len(charges))
	for _, c := range charges {
		if (id != "" && c.ID == id) || (id == "" && c.Name == name) {
			continue
		}
		kept = append(kept, c)
	}

	if len(kept) == len(charges) {
		WriteError(w, http.StatusNotFound, "Recurring charge not found")
		return
	}

	if err := d.Registry.Save(r.Context(), kept); err != nil {
		slog.Error("failed to save recurring charges", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to save recurring charges: "+err.Error())
		return
	}

	slog.Info("deleted recurring charge", "id", id, "name", name)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
