package handler

import (
	"context"

	"github.com/rocjay1/ledger-dashboard/internal/config"
	"github.com/rocjay1/ledger-dashboard/internal/ledger"
	"github.com/rocjay1/ledger-dashboard/internal/models"
)

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadFunc   func(ctx context.Context, containerName, blobName string, data []byte) error
	DownloadFunc func(ctx context.Context, containerName, blobName string) ([]byte, error)
}

func (m *MockBlobClient) Upload(ctx context.Context, containerName, blobName string, data []byte) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, containerName, blobName, data)
	}
	return nil
}

func (m *MockBlobClient) Download(ctx context.Context, containerName, blobName string) ([]byte, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, containerName, blobName)
	}
	return nil, nil
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

// MockUploadLogClient is a mock implementation of UploadLogClient
type MockUploadLogClient struct {
	SaveReportFunc   func(ctx context.Context, report models.UploadReport) error
	ListReportsFunc  func(ctx context.Context, limit int) ([]models.UploadReport, error)
	LatestReportFunc func(ctx context.Context) (*models.UploadReport, error)
}

func (m *MockUploadLogClient) SaveReport(ctx context.Context, report models.UploadReport) error {
	if m.SaveReportFunc != nil {
		return m.SaveReportFunc(ctx, report)
	}
	return nil
}

func (m *MockUploadLogClient) ListReports(ctx context.Context, limit int) ([]models.UploadReport, error) {
	if m.ListReportsFunc != nil {
		return m.ListReportsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockUploadLogClient) LatestReport(ctx context.Context) (*models.UploadReport, error) {
	if m.LatestReportFunc != nil {
		return m.LatestReportFunc(ctx)
	}
	return nil, models.ErrNotFound
}

// MockEmailClient is a mock implementation of EmailClient
type MockEmailClient struct {
	SendErrorEmailFunc   func(ctx context.Context, recipients []string, filename string, errors []string) error
	SendSummaryEmailFunc func(ctx context.Context, recipients []string, report models.UploadReport, totals models.Totals, warnings []string) error
	SendDigestEmailFunc  func(ctx context.Context, recipients []string, digest models.Digest) error
}

func (m *MockEmailClient) SendErrorEmail(ctx context.Context, recipients []string, filename string, errors []string) error {
	if m.SendErrorEmailFunc != nil {
		return m.SendErrorEmailFunc(ctx, recipients, filename, errors)
	}
	return nil
}

func (m *MockEmailClient) SendSummaryEmail(ctx context.Context, recipients []string, report models.UploadReport, totals models.Totals, warnings []string) error {
	if m.SendSummaryEmailFunc != nil {
		return m.SendSummaryEmailFunc(ctx, recipients, report, totals, warnings)
	}
	return nil
}

func (m *MockEmailClient) SendDigestEmail(ctx context.Context, recipients []string, digest models.Digest) error {
	if m.SendDigestEmailFunc != nil {
		return m.SendDigestEmailFunc(ctx, recipients, digest)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		UploadsContainer: "uploads",
		UploadsQueue:     "ledger-uploads",
		UploadsTable:     "uploads",
		UserEmail:        "test@example.com",
		DateLayouts:      ledger.DefaultDateLayouts,
		Timezone:         "UTC",
		Currency:         "SEK",
		ForecastPeriod:   7,
		MaxUploadMB:      10,
		LogLevel:         "info",
	}
}

// scenarioCSV is a three-row ledger spanning January 5 to February 1, 2024.
const scenarioCSV = "Date,Income/Expense,Category,Subcategory,Note,SEK\n" +
	"05/01/2024,Expense,Food,Groceries,lunch,100\n" +
	"20/01/2024,Income,Salary,,,50\n" +
	"01/02/2024,Expense,Food,Restaurant,,30\n"

func blobWith(content string) *MockBlobClient {
	return &MockBlobClient{
		DownloadFunc: func(ctx context.Context, containerName, blobName string) ([]byte, error) {
			return []byte(content), nil
		},
	}
}
