package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/config"
)

// Dependencies holds the services required by the handlers.
type Dependencies struct {
	Ledger   LedgerStore
	Registry RegistryStore
	Blob     BlobClient
	Queue    QueueClient
	RunLog   RunLogClient
	Config   *config.Config
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// parseMonth parses a "2006-01" month parameter.
func parseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}
