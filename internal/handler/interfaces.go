package handler

import (
	"context"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/services"
)

// LedgerStore defines the ledger persistence operations used by handlers.
type LedgerStore interface {
	Load(ctx context.Context) ([]models.Entry, error)
	Save(ctx context.Context, entries []models.Entry) error
}

// RegistryStore defines the recurring-charge persistence operations used by
// handlers.
type RegistryStore interface {
	Load(ctx context.Context) ([]models.RecurringCharge, error)
	Save(ctx context.Context, charges []models.RecurringCharge) error
}

// BlobClient defines the blob storage operations used by handlers.
type BlobClient interface {
	UploadText(ctx context.Context, containerName, blobName, content string) error
	DownloadText(ctx context.Context, containerName, blobName string) (string, error)
}

// QueueClient defines the queue operations used by handlers.
type QueueClient interface {
	EnqueueMessage(ctx context.Context, queueName string, message any) error
}

// RunLogClient defines the reconciliation audit log operations used by
// handlers.
type RunLogClient interface {
	RecordRun(ctx context.Context, run services.ReconcileRun) error
	ListRuns(ctx context.Context, month string) ([]services.ReconcileRun, error)
}
