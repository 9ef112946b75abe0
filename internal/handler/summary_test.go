package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHandleSummary_Success(t *testing.T) {
	mockLedger := &MockLedgerStore{}
	deps := &Dependencies{Ledger: mockLedger}

	mockLedger.LoadFunc = func(ctx context.Context) ([]models.Entry, error) {
		return []models.Entry{
			{Date: "2025-01-05", Category: "Bills", Amount: decimal.NewFromInt(10), Kind: models.KindExpense},
			{Date: "2025-01-06", Category: "Salary", Amount: decimal.NewFromInt(50), Kind: models.KindIncome},
			{Date: "2025-02-01", Category: "Bills", Amount: decimal.NewFromInt(5), Kind: models.KindExpense},
		}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/summary?month=2025-01", nil)
	w := httptest.NewRecorder()

	deps.HandleSummary(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary report.MonthSummary `json:"summary"`
		Latest  []models.Entry      `json:"latest"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	assert.True(t, resp.Summary.TotalIncome.Equal(decimal.NewFromInt(50)))
	assert.True(t, resp.Summary.TotalExpense.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.Summary.Balance.Equal(decimal.NewFromInt(40)))
	assert.Len(t, resp.Latest, 2)
	assert.Equal(t, "2025-01-06", resp.Latest[0].Date)
}

func TestHandleSummary_MissingMonth(t *testing.T) {
	deps := &Dependencies{}
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	w := httptest.NewRecorder()

	deps.HandleSummary(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSummary_BadMonth(t *testing.T) {
	deps := &Dependencies{}
	req := httptest.NewRequest(http.MethodGet, "/api/summary?month=2025-13", nil)
	w := httptest.NewRecorder()

	deps.HandleSummary(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSummary_LatestLimit(t *testing.T) {
	mockLedger := &MockLedgerStore{}
	deps := &Dependencies{Ledger: mockLedger}

	mockLedger.LoadFunc = func(ctx context.Context) ([]models.Entry, error) {
		return []models.Entry{
			{Date: "2025-01-05", Amount: decimal.NewFromInt(1), Kind: models.KindExpense},
			{Date: "2025-01-06", Amount: decimal.NewFromInt(2), Kind: models.KindExpense},
			{Date: "2025-01-07", Amount: decimal.NewFromInt(3), Kind: models.KindExpense},
		}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/summary?month=2025-01&latest=1", nil)
	w := httptest.NewRecorder()

	deps.HandleSummary(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Latest []models.Entry `json:"latest"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Len(t, resp.Latest, 1)
	assert.Equal(t, "2025-01-07", resp.Latest[0].Date)
}
