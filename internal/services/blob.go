package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/rocjay1/ledger-dashboard/internal/models"
)

// BlobService stores raw ledger uploads in Azure Blob Storage.
type BlobService struct {
	client *azblob.Client
	// containers already created by this process
	ensured sync.Map
}

// NewBlobService creates a BlobService for the given account URL.
func NewBlobService(serviceURL string) (*BlobService, error) {
	client, err := newClient("blob", serviceURL,
		func(account, key string) (*azblob.Client, error) {
			cred, err := azblob.NewSharedKeyCredential(account, key)
			if err != nil {
				return nil, err
			}
			return azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		},
		func(cred azcore.TokenCredential) (*azblob.Client, error) {
			return azblob.NewClient(serviceURL, cred, nil)
		},
	)
	if err != nil {
		return nil, err
	}

	slog.Info("blob service initialized successfully")
	return &BlobService{client: client}, nil
}

func (s *BlobService) ensureContainer(ctx context.Context, containerName string) {
	if _, ok := s.ensured.Load(containerName); ok {
		return
	}
	_, err := s.client.CreateContainer(ctx, containerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		slog.Warn("failed to create container (may already exist)", "container", containerName, "error", err)
		return
	}
	s.ensured.Store(containerName, struct{}{})
}

// Upload stores data as a block blob, replacing any existing blob.
func (s *BlobService) Upload(ctx context.Context, containerName, blobName string, data []byte) error {
	slog.Info("uploading blob", "container", containerName, "blob_name", blobName, "size_bytes", len(data))
	s.ensureContainer(ctx, containerName)

	if _, err := s.client.UploadBuffer(ctx, containerName, blobName, data, nil); err != nil {
		slog.Error("failed to upload blob", "container", containerName, "blob_name", blobName, "error", err)
		return fmt.Errorf("failed to upload blob %s/%s: %w", containerName, blobName, err)
	}
	slog.Info("successfully uploaded blob", "container", containerName, "blob_name", blobName)
	return nil
}

// Download returns the content of a blob.
func (s *BlobService) Download(ctx context.Context, containerName, blobName string) ([]byte, error) {
	slog.Info("downloading blob", "container", containerName, "blob_name", blobName)
	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("blob %s/%s: %w", containerName, blobName, models.ErrNotFound)
		}
		slog.Error("failed to download blob", "container", containerName, "blob_name", blobName, "error", err)
		return nil, fmt.Errorf("failed to download blob %s/%s: %w", containerName, blobName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob content: %w", err)
	}

	slog.Info("successfully downloaded blob", "container", containerName, "blob_name", blobName, "size_bytes", len(data))
	return data, nil
}
