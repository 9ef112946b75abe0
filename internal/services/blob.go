package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/septimiuandreig-byte/mie-spese-app/internal/config"
)

// BlobService handles interactions with Azure Blob Storage. Both CSV data
// files and uploaded statements live behind it.
type BlobService struct {
	client *azblob.Client
}

// NewBlobService creates a new BlobService instance.
func NewBlobService(cfg *config.Config) (*BlobService, error) {
	if cfg.BlobServiceURL == "" {
		return nil, fmt.Errorf("BLOB_SERVICE_URL environment variable is required")
	}

	slog.Info("initializing blob service", "blob_url", cfg.BlobServiceURL)
	var client *azblob.Client

	// Check if running locally with Azurite (http endpoint)
	if isLocal(cfg.BlobServiceURL) {
		slog.Info("using Azurite shared key credentials for blob service")
		name, key := getAzuriteCredentials()
		cred, err := azblob.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(cfg.BlobServiceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client with shared key: %w", err)
		}
	} else {
		// Production: Managed Identity
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = azblob.NewClient(cfg.BlobServiceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client: %w", err)
		}
	}

	return &BlobService{client: client}, nil
}

// UploadText uploads a string to a blob.
func (s *BlobService) UploadText(ctx context.Context, containerName, blobName, text string) error {
	slog.Info("uploading blob", "container", containerName, "blob_name", blobName, "size_bytes", len(text))
	// Create container if not exists (mostly for dev)
	_, err := s.client.CreateContainer(ctx, containerName, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		slog.Warn("failed to create container (may already exist)", "container", containerName, "error", err)
	}

	_, err = s.client.UploadBuffer(ctx, containerName, blobName, []byte(text), nil)
	if err != nil {
		slog.Error("failed to upload blob", "container", containerName, "blob_name", blobName, "error", err)
		return fmt.Errorf("failed to upload blob %s/%s: %w", containerName, blobName, err)
	}
	return nil
}

// DownloadText downloads a blob and returns its content as a string.
func (s *BlobService) DownloadText(ctx context.Context, containerName, blobName string) (string, error) {
	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		slog.Error("failed to download blob", "container", containerName, "blob_name", blobName, "error", err)
		return "", fmt.Errorf("failed to download blob %s/%s: %w", containerName, blobName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read blob content: %w", err)
	}

	slog.Info("downloaded blob", "container", containerName, "blob_name", blobName, "size_bytes", len(data))
	return string(data), nil
}

// DownloadTextIfExists downloads a blob, treating a missing blob or
// container as empty content. The data files start out not existing.
func (s *BlobService) DownloadTextIfExists(ctx context.Context, containerName, blobName string) (string, error) {
	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			slog.Info("blob not found, treating as empty", "container", containerName, "blob_name", blobName)
			return "", nil
		}
		return "", fmt.Errorf("failed to download blob %s/%s: %w", containerName, blobName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read blob content: %w", err)
	}
	return string(data), nil
}
