package handler

import (
	"context"

	"github.com/rocjay1/ledger-dashboard/internal/models"
)

// BlobClient defines the interface for blob storage operations used by handlers.
type BlobClient interface {
	Upload(ctx context.Context, containerName, blobName string, data []byte) error
	Download(ctx context.Context, containerName, blobName string) ([]byte, error)
}

// QueueClient defines the interface for queue operations used by handlers.
type QueueClient interface {
	EnqueueMessage(ctx context.Context, queueName string, message any) error
}

// UploadLogClient defines the interface for the upload diagnostics log.
type UploadLogClient interface {
	SaveReport(ctx context.Context, report models.UploadReport) error
	ListReports(ctx context.Context, limit int) ([]models.UploadReport, error)
	LatestReport(ctx context.Context) (*models.UploadReport, error)
}

// EmailClient defines the interface for email operations used by handlers.
type EmailClient interface {
	SendErrorEmail(ctx context.Context, recipients []string, filename string, errors []string) error
	SendSummaryEmail(ctx context.Context, recipients []string, report models.UploadReport, totals models.Totals, warnings []string) error
	SendDigestEmail(ctx context.Context, recipients []string, digest models.Digest) error
}
