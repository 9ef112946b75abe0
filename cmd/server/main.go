package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/config"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/handler"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/services"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	// .env is optional; real deployments configure via app settings.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := config.Load()

	deps := &handler.Dependencies{Config: cfg}

	if cfg.DataDir != "" {
		// Local flat-file mode, no Azure services required.
		slog.Info("Using local file storage", "dir", cfg.DataDir)
		deps.Ledger = services.NewFileLedgerStore(filepath.Join(cfg.DataDir, cfg.LedgerBlob))
		deps.Registry = services.NewFileRegistryStore(filepath.Join(cfg.DataDir, cfg.RegistryBlob))
	} else {
		blobService, err := services.NewBlobService(cfg)
		if err != nil {
			slog.Error("Failed to init BlobService", "error", err)
			os.Exit(1)
		}

		queueService, err := services.NewQueueService(cfg)
		if err != nil {
			slog.Error("Failed to init QueueService", "error", err)
			os.Exit(1)
		}

		runLogService, err := services.NewRunLogService(cfg)
		if err != nil {
			slog.Warn("Failed to init RunLogService (continuing without run audit log)", "error", err)
		}

		deps.Ledger = services.NewBlobLedgerStore(blobService, cfg)
		deps.Registry = services.NewBlobRegistryStore(blobService, cfg)
		deps.Blob = blobService
		deps.Queue = queueService
		if runLogService != nil {
			deps.RunLog = runLogService
		}
	}

	// Router
	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("GET /api/entries", deps.HandleEntries)
	mux.HandleFunc("POST /api/entries", deps.HandleEntries)
	mux.HandleFunc("DELETE /api/entries", deps.HandleEntries)

	mux.HandleFunc("GET /api/recurring", deps.HandleRecurring)
	mux.HandleFunc("POST /api/recurring", deps.HandleRecurring)
	mux.HandleFunc("DELETE /api/recurring", deps.HandleRecurring)

	mux.HandleFunc("POST /api/reconcile", deps.HandleReconcile)
	mux.HandleFunc("GET /api/reconcile/runs", deps.HandleRuns)

	mux.HandleFunc("GET /api/summary", deps.HandleSummary)

	// The import pipeline needs blob and queue backends.
	if deps.Blob != nil {
		mux.HandleFunc("POST /api/upload", deps.HandleUpload)
		mux.HandleFunc("/ProcessQueue", deps.ProcessQueue)
	}

	// Adapter for HTTP Trigger (since enableForwardingHttpRequest is false)
	mux.HandleFunc("/HttpTrigger", deps.HandleHttpTrigger(mux))

	// Use simpler path matching for host triggers to avoid method mismatch issues
	mux.HandleFunc("/NightlyTrigger", deps.HandleNightlyTrigger)

	// Health check (optional, good for debugging)
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Wrap mux with logging middleware
	loggedMux := loggingMiddleware(mux)

	slog.Info("Starting server", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, loggedMux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		slog.Info("request completed", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", duration)
	})
}
