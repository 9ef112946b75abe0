package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/csvparse"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// dueCharge is due on every day of the month, so tests don't depend on
// when they run.
func dueCharge() models.RecurringCharge {
	return models.RecurringCharge{
		ID:     "charge-1",
		Name:   "Netflix",
		Amount: decimal.NewFromFloat(12.99),
		DueDay: 1,
		Active: true,
	}
}

func TestHandleReconcile_PostsAndSaves(t *testing.T) {
	mockLedger := &MockLedgerStore{}
	mockRegistry := &MockRegistryStore{}
	mockRunLog := &MockRunLogClient{}
	deps := &Dependencies{Ledger: mockLedger, Registry: mockRegistry, RunLog: mockRunLog}

	mockRegistry.LoadFunc = func(ctx context.Context) ([]models.RecurringCharge, error) {
		return []models.RecurringCharge{dueCharge()}, nil
	}

	var saved []models.Entry
	mockLedger.SaveFunc = func(ctx context.Context, entries []models.Entry) error {
		saved = entries
		return nil
	}

	var recorded *services.ReconcileRun
	mockRunLog.RecordRunFunc = func(ctx context.Context, run services.ReconcileRun) error {
		recorded = &run
		return nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
	w := httptest.NewRecorder()

	deps.HandleReconcile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]int
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, 1, resp["posted"])

	assert.Len(t, saved, 1)
	assert.Equal(t, "charge-1", saved[0].Source)
	assert.Equal(t, models.KindExpense, saved[0].Kind)
	assert.NotEmpty(t, saved[0].ID, "saved entries carry derived IDs")

	if assert.NotNil(t, recorded) {
		assert.Equal(t, "api", recorded.Trigger)
		assert.Equal(t, 1, recorded.Posted)
	}
}

func TestHandleReconcile_AlreadyPostedSkipsSave(t *testing.T) {
	mockLedger := &MockLedgerStore{}
	mockRegistry := &MockRegistryStore{}
	deps := &Dependencies{Ledger: mockLedger, Registry: mockRegistry}

	mockLedger.LoadFunc = func(ctx context.Context) ([]models.Entry, error) {
		return []models.Entry{{
			Date:   time.Now().Format(csvparse.DateFormat),
			Amount: decimal.NewFromFloat(12.99),
			Note:   "AUTO: Netflix",
			Kind:   models.KindExpense,
			Source: "charge-1",
		}}, nil
	}
	mockRegistry.LoadFunc = func(ctx context.Context) ([]models.RecurringCharge, error) {
		return []models.RecurringCharge{dueCharge()}, nil
	}
	mockLedger.SaveFunc = func(ctx context.Context, entries []models.Entry) error {
		assert.Fail(t, "ledger should not be saved when nothing was posted")
		return nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
	w := httptest.NewRecorder()

	deps.HandleReconcile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]int
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, 0, resp["posted"])
}

func TestHandleReconcile_LoadError(t *testing.T) {
	mockLedger := &MockLedgerStore{}
	deps := &Dependencies{Ledger: mockLedger, Registry: &MockRegistryStore{}}

	mockLedger.LoadFunc = func(ctx context.Context) ([]models.Entry, error) {
		return nil, errors.New("storage unreachable")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
	w := httptest.NewRecorder()

	deps.HandleReconcile(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleReconcile_RunLogFailureIsNotFatal(t *testing.T) {
	mockRegistry := &MockRegistryStore{}
	mockRunLog := &MockRunLogClient{}
	deps := &Dependencies{Ledger: &MockLedgerStore{}, Registry: mockRegistry, RunLog: mockRunLog}

	mockRegistry.LoadFunc = func(ctx context.Context) ([]models.RecurringCharge, error) {
		return []models.RecurringCharge{dueCharge()}, nil
	}
	mockRunLog.RecordRunFunc = func(ctx context.Context, run services.ReconcileRun) error {
		return errors.New("table unavailable")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
	w := httptest.NewRecorder()

	deps.HandleReconcile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleReconcile_MethodNotAllowed(t *testing.T) {
	deps := &Dependencies{}
	req := httptest.NewRequest(http.MethodGet, "/api/reconcile", nil)
	w := httptest.NewRecorder()

	deps.HandleReconcile(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleRuns_Success(t *testing.T) {
	mockRunLog := &MockRunLogClient{}
	deps := &Dependencies{RunLog: mockRunLog}

	mockRunLog.ListRunsFunc = func(ctx context.Context, month string) ([]services.ReconcileRun, error) {
		assert.Equal(t, "2025-08", month)
		return []services.ReconcileRun{{Timestamp: "2025-08-10T02:00:00Z", Trigger: "nightly", Posted: 2}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reconcile/runs?month=2025-08", nil)
	w := httptest.NewRecorder()

	deps.HandleRuns(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var runs []services.ReconcileRun
	json.Unmarshal(w.Body.Bytes(), &runs)
	assert.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Posted)
}

func TestHandleRuns_MissingMonth(t *testing.T) {
	deps := &Dependencies{}
	req := httptest.NewRequest(http.MethodGet, "/api/reconcile/runs", nil)
	w := httptest.NewRecorder()

	deps.HandleRuns(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
