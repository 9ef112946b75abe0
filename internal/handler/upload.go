package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"
)

// HandleUpload accepts a CSV of bank movements and queues it for import
// into the ledger.
func (d *Dependencies) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("upload attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// 10MB limit
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Warn("failed to parse multipart form", "error", err, "max_size_mb", 10)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Warn("failed to get file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read uploaded file", "filename", header.Filename, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	slog.Info("received file upload", "filename", header.Filename, "size_bytes", len(bytes))

	timestamp := time.Now().Format("20060102-150405")
	filename := filepath.Base(header.Filename)
	blobName := fmt.Sprintf("imports/%s-%s", timestamp, filename)

	if err := d.Blob.UploadText(r.Context(), d.Config.UploadsContainer, blobName, string(bytes)); err != nil {
		slog.Error("failed to upload blob", "blob_name", blobName, "container", d.Config.UploadsContainer, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to upload blob: "+err.Error())
		return
	}

	msg := map[string]string{
		"blob_name": blobName,
		"filename":  filename,
	}

	if err := d.Queue.EnqueueMessage(r.Context(), d.Config.ImportQueue, msg); err != nil {
		slog.Error("failed to enqueue import", "queue", d.Config.ImportQueue, "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue message: "+err.Error())
		return
	}
	slog.Info("queued statement import", "queue", d.Config.ImportQueue, "blob_name", blobName)

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "success",
		"blob_name": blobName,
	})
}
