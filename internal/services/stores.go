package services

import (
	"context"
	"log/slog"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/config"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/csvparse"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
)

// BlobLedgerStore persists the ledger as a CSV blob. A missing blob loads
// as an empty ledger; malformed rows are dropped with a warning, never a
// failed load.
type BlobLedgerStore struct {
	blob      *BlobService
	container string
	blobName  string
}

// NewBlobLedgerStore creates a ledger store over the configured data blob.
func NewBlobLedgerStore(blob *BlobService, cfg *config.Config) *BlobLedgerStore {
	return &BlobLedgerStore{blob: blob, container: cfg.DataContainer, blobName: cfg.LedgerBlob}
}

// Load fetches and parses the ledger.
func (s *BlobLedgerStore) Load(ctx context.Context) ([]models.Entry, error) {
	content, err := s.blob.DownloadTextIfExists(ctx, s.container, s.blobName)
	if err != nil {
		return nil, err
	}

	entries, rowErrs := csvparse.ParseLedger(content)
	for _, msg := range rowErrs {
		slog.Warn("skipping malformed ledger row", "blob_name", s.blobName, "detail", msg)
	}
	return entries, nil
}

// Save writes the full ledger back to the blob.
func (s *BlobLedgerStore) Save(ctx context.Context, entries []models.Entry) error {
	return s.blob.UploadText(ctx, s.container, s.blobName, csvparse.WriteLedger(entries))
}

// BlobRegistryStore persists the recurring charge registry as a CSV blob.
type BlobRegistryStore struct {
	blob      *BlobService
	container string
	blobName  string
}

// NewBlobRegistryStore creates a registry store over the configured data blob.
func NewBlobRegistryStore(blob *BlobService, cfg *config.Config) *BlobRegistryStore {
	return &BlobRegistryStore{blob: blob, container: cfg.DataContainer, blobName: cfg.RegistryBlob}
}

// Load fetches and parses the registry.
func (s *BlobRegistryStore) Load(ctx context.Context) ([]models.RecurringCharge, error) {
	content, err := s.blob.DownloadTextIfExists(ctx, s.container, s.blobName)
	if err != nil {
		return nil, err
	}

	charges, rowErrs := csvparse.ParseRegistry(content)
	for _, msg := range rowErrs {
		slog.Warn("skipping malformed registry row", "blob_name", s.blobName, "detail", msg)
	}
	return charges, nil
}

// Save writes the full registry back to the blob.
func (s *BlobRegistryStore) Save(ctx context.Context, charges []models.RecurringCharge) error {
	return s.blob.UploadText(ctx, s.container, s.blobName, csvparse.WriteRegistry(charges))
}
