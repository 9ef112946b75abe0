package handler

import (
	"context"

	"github.com/septimiuandreig-byte/mie-spese-app/internal/models"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/services"
)

// MockLedgerStore is a mock implementation of LedgerStore
type MockLedgerStore struct {
	LoadFunc func(ctx context.Context) ([]models.Entry, error)
	SaveFunc func(ctx context.Context, entries []models.Entry) error
}

func (m *MockLedgerStore) Load(ctx context.Context) ([]models.Entry, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return []models.Entry{}, nil
}

func (m *MockLedgerStore) Save(ctx context.Context, entries []models.Entry) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, entries)
	}
	return nil
}

// MockRegistryStore is a mock implementation of RegistryStore
type MockRegistryStore struct {
	LoadFunc func(ctx context.Context) ([]models.RecurringCharge, error)
	SaveFunc func(ctx context.Context, charges []models.RecurringCharge) error
}

func (m *MockRegistryStore) Load(ctx context.Context) ([]models.RecurringCharge, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return []models.RecurringCharge{}, nil
}

func (m *MockRegistryStore) Save(ctx context.Context, charges []models.RecurringCharge) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, charges)
	}
	return nil
}

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadTextFunc   func(ctx context.Context, containerName, blobName, content string) error
	DownloadTextFunc func(ctx context.Context, containerName, blobName string) (string, error)
}

func (m *MockBlobClient) UploadText(ctx context.Context, containerName, blobName, content string) error {
	if m.UploadTextFunc != nil {
		return m.UploadTextFunc(ctx, containerName, blobName, content)
	}
	return nil
}

func (m *MockBlobClient) DownloadText(ctx context.Context, containerName, blobName string) (string, error) {
	if m.DownloadTextFunc != nil {
		return m.DownloadTextFunc(ctx, containerName, blobName)
	}
	return "", nil
}

// MockQueueClient is a mock implementation of QueueClient
type MockQueueClient struct {
	EnqueueMessageFunc func(ctx context.Context, queueName string, message any) error
}

func (m *MockQueueClient) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	if m.EnqueueMessageFunc != nil {
		return m.EnqueueMessageFunc(ctx, queueName, message)
	}
	return nil
}

// MockRunLogClient is a mock implementation of RunLogClient
type MockRunLogClient struct {
	RecordRunFunc func(ctx context.Context, run services.ReconcileRun) error
	ListRunsFunc  func(ctx context.Context, month string) ([]services.ReconcileRun, error)
}

func (m *MockRunLogClient) RecordRun(ctx context.Context, run services.ReconcileRun) error {
	if m.RecordRunFunc != nil {
		return m.RecordRunFunc(ctx, run)
	}
	return nil
}

func (m *MockRunLogClient) ListRuns(ctx context.Context, month string) ([]services.ReconcileRun, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(ctx, month)
	}
	return []services.ReconcileRun{}, nil
}
