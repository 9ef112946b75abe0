package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/csvparse"
)

// invokeRequest represents the payload from the Azure Functions custom
// handler host.
type invokeRequest struct {
	Data     map[string]any `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// ProcessQueue handles the queue trigger for importing uploaded movement
// CSVs into the ledger. Rows already present in the ledger (same date,
// category, amount, note, and kind) are skipped.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	var invokeReq invokeRequest
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read queue request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
		slog.Error("failed to unmarshal queue request", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to unmarshal request")
		return
	}

	queueItemVal, ok := invokeReq.Data["queueItem"]
	if !ok {
		queueItemVal, ok = invokeReq.Data["queueitem"]
		if !ok {
			WriteError(w, http.StatusBadRequest, "Missing queueItem in Data")
			return
		}
	}

	queueItemStr, ok := queueItemVal.(string)
	if !ok {
		WriteError(w, http.StatusBadRequest, "queueItem is not a string")
		return
	}

	var queueData map[string]string
	if err := json.Unmarshal([]byte(queueItemStr), &queueData); err != nil {
		slog.Error("failed to unmarshal queueItem", "error", err)
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid queueItem JSON: %v", err))
		return
	}

	blobName := queueData["blob_name"]
	if blobName == "" {
		slog.Warn("queue message missing blob_name", "queue_data", queueData)
		WriteError(w, http.StatusBadRequest, "Missing blob_name")
		return
	}

	slog.Info("processing statement import", "blob_name", blobName, "container", d.Config.UploadsContainer)

	csvContent, err := d.Blob.DownloadText(r.Context(), d.Config.UploadsContainer, blobName)
	if err != nil {
		slog.Error("failed to download import CSV", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download CSV: %v", err))
		return
	}

	imported, rowErrs := csvparse.ParseLedger(csvContent)
	slog.Info("parsed import CSV", "blob_name", blobName, "rows", len(imported), "errors_count", len(rowErrs))

	if len(rowErrs) > 0 && len(imported) == 0 {
		slog.Warn("import contained no valid rows", "blob_name", blobName, "errors_count", len(rowErrs))
		// Consume the message so it doesn't retry forever.
		w.WriteHeader(http.StatusOK)
		return
	}

	entries, err := d.Ledger.Load(r.Context())
	if err != nil {
		slog.Error("failed to load ledger for import", "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load ledger: %v", err))
		return
	}

	existing := make(map[string]bool, len(entries))
	for _, e := range entries {
		existing[csvparse.Signature(e)] = true
	}

	added := 0
	for _, e := range imported {
		sig := csvparse.Signature(e)
		if existing[sig] {
			continue
		}
		existing[sig] = true
		// Imported rows never reference a recurring charge.
		e.Source = ""
		entries = append(entries, e)
		added++
	}

	if added > 0 {
		csvparse.AssignEntryIDs(entries)
		if err := d.Ledger.Save(r.Context(), entries); err != nil {
			slog.Error("failed to save ledger after import", "blob_name", blobName, "error", err)
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save ledger: %v", err))
			return
		}
	}

	slog.Info("statement import complete", "blob_name", blobName, "added", added, "skipped", len(imported)-added)
	w.WriteHeader(http.StatusOK)
}
