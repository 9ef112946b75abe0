package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/csvparse"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
)

// FileLedgerStore is the local-file counterpart of BlobLedgerStore, for
// running without any storage account. A missing file loads as an empty
// ledger.
type FileLedgerStore struct {
	path string
}

// NewFileLedgerStore creates a ledger store over a local CSV file.
func NewFileLedgerStore(path string) *FileLedgerStore {
	return &FileLedgerStore{path: path}
}

// Load reads and parses the ledger file.
func (s *FileLedgerStore) Load(ctx context.Context) ([]models.Entry, error) {
	content, err := readFileIfExists(s.path)
	if err != nil {
		return nil, err
	}

	entries, rowErrs := csvparse.ParseLedger(content)
	for _, msg := range rowErrs {
		slog.Warn("skipping malformed ledger row", "path", s.path, "detail", msg)
	}
	return entries, nil
}

// Save writes the full ledger back to the file.
func (s *FileLedgerStore) Save(ctx context.Context, entries []models.Entry) error {
	if err := os.WriteFile(s.path, []byte(csvparse.WriteLedger(entries)), 0o644); err != nil {
		return fmt.Errorf("failed to write ledger file %s: %w", s.path, err)
	}
	return nil
}

// FileRegistryStore is the local-file counterpart of BlobRegistryStore.
type FileRegistryStore struct {
	path string
}

// NewFileRegistryStore creates a registry store over a local CSV file.
func NewFileRegistryStore(path string) *FileRegistryStore {
	return &FileRegistryStore{path: path}
}

// Load reads and parses the registry file.
func (s *FileRegistryStore) Load(ctx context.Context) ([]models.RecurringCharge, error) {
	content, err := readFileIfExists(s.path)
	if err != nil {
		return nil, err
	}

	charges, rowErrs := csvparse.ParseRegistry(content)
	for _, msg := range rowErrs {
		slog.Warn("skipping malformed registry row", "path", s.path, "detail", msg)
	}
	return charges, nil
}

// Save writes the full registry back to the file.
func (s *FileRegistryStore) Save(ctx context.Context, charges []models.RecurringCharge) error {
	if err := os.WriteFile(s.path, []byte(csvparse.WriteRegistry(charges)), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file %s: %w", s.path, err)
	}
	return nil
}

func readFileIfExists(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
