package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/config"
)

// ReconcileRun records one reconciliation pass: when it ran, what invoked
// it, and how many entries it posted.
type ReconcileRun struct {
	Timestamp string `json:"timestamp"` // RFC3339
	Trigger   string `json:"trigger"`   // "api" or "nightly"
	Posted    int    `json:"posted"`
}

// RunLogService keeps an audit log of reconciliation runs in Azure Table
// Storage, partitioned by month.
type RunLogService struct {
	serviceClient *aztables.ServiceClient
	table         string
}

// NewRunLogService creates a new RunLogService instance and ensures the
// backing table exists.
func NewRunLogService(cfg *config.Config) (*RunLogService, error) {
	if cfg.TableServiceURL == "" {
		return nil, fmt.Errorf("TABLE_SERVICE_URL environment variable is required")
	}

	var client *aztables.ServiceClient

	// Check if running locally with Azurite (http endpoint)
	if isLocal(cfg.TableServiceURL) {
		slog.Info("using Azurite credentials for run log service")
		name, key := getAzuriteCredentials()
		cred, err := aztables.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = aztables.NewServiceClientWithSharedKey(cfg.TableServiceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		// Production: Managed Identity
		slog.Info("using default Azure credentials for run log service")
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = aztables.NewServiceClient(cfg.TableServiceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	svc := &RunLogService{serviceClient: client, table: cfg.RunLogTable}

	if err := svc.createTable(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create run log table: %w", err)
	}

	slog.Info("run log service initialized", "table_url", cfg.TableServiceURL, "table", cfg.RunLogTable)
	return svc, nil
}

func (s *RunLogService) createTable(ctx context.Context) error {
	_, err := s.serviceClient.CreateTable(ctx, s.table, nil)
	if err != nil {
		// Ignore error if table already exists
		var azErr *azcore.ResponseError
		if errors.As(err, &azErr) && azErr.ErrorCode == "TableAlreadyExists" {
			return nil
		}
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// RecordRun appends a reconciliation run to the log. The partition key is
// the run's month, the row key its timestamp.
func (s *RunLogService) RecordRun(ctx context.Context, run ReconcileRun) error {
	client := s.serviceClient.NewClient(s.table)

	ts, err := time.Parse(time.RFC3339, run.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid run timestamp %q: %w", run.Timestamp, err)
	}

	entity := map[string]any{
		"PartitionKey": ts.Format("2006-01"),
		"RowKey":       run.Timestamp,
		"Trigger":      run.Trigger,
		"Posted":       run.Posted,
	}

	entityJson, _ := json.Marshal(entity)
	if _, err := client.UpsertEntity(ctx, entityJson, nil); err != nil {
		return fmt.Errorf("failed to record reconcile run: %w", err)
	}
	return nil
}

// ListRuns returns the recorded runs for a month in "2006-01" form.
func (s *RunLogService) ListRuns(ctx context.Context, month string) ([]ReconcileRun, error) {
	client := s.serviceClient.NewClient(s.table)

	filter := fmt.Sprintf("PartitionKey eq '%s'", month)
	pager := client.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
	})

	runs := []ReconcileRun{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list reconcile runs: %w", err)
		}

		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}

			run := ReconcileRun{}
			if v, ok := parsed["RowKey"].(string); ok {
				run.Timestamp = v
			}
			if v, ok := parsed["Trigger"].(string); ok {
				run.Trigger = v
			}
			if v, ok := parsed["Posted"].(float64); ok {
				run.Posted = int(v)
			}
			runs = append(runs, run)
		}
	}

	return runs, nil
}
