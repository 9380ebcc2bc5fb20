package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/rocjay1/ledger-dashboard/internal/models"
)

const uploadsPartition = "uploads"

// UploadLogService records upload diagnostics in Azure Table Storage. It
// never stores ledger rows.
type UploadLogService struct {
	client *aztables.Client
	table  string
}

// NewUploadLogService creates the service and makes sure the table exists.
func NewUploadLogService(ctx context.Context, serviceURL, table string) (*UploadLogService, error) {
	serviceClient, err := newClient("table", serviceURL,
		func(account, key string) (*aztables.ServiceClient, error) {
			cred, err := aztables.NewSharedKeyCredential(account, key)
			if err != nil {
				return nil, err
			}
			return aztables.NewServiceClientWithSharedKey(serviceURL, cred, nil)
		},
		func(cred azcore.TokenCredential) (*aztables.ServiceClient, error) {
			return aztables.NewServiceClient(serviceURL, cred, nil)
		},
	)
	if err != nil {
		return nil, err
	}

	if _, err := serviceClient.CreateTable(ctx, table, nil); err != nil && !hasErrorCode(err, "TableAlreadyExists") {
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	slog.Info("upload log service initialized successfully", "table_url", serviceURL, "table", table)
	return &UploadLogService{client: serviceClient.NewClient(table), table: table}, nil
}

// uploadEntity is the table row of an UploadReport.
type uploadEntity struct {
	aztables.Entity
	UploadID    string
	BlobName    string
	Filename    string
	RowsRead    int
	RowsKept    int
	RowsDropped int
	FirstDate   string
	LastDate    string
	Status      string
	Error       string
	ProcessedAt string
}

// reportRowKey sorts newest first: the table returns rows in ascending
// RowKey order.
func reportRowKey(r models.UploadReport) string {
	processed, err := time.Parse(time.RFC3339, r.ProcessedAt)
	if err != nil {
		processed = time.Now()
	}
	return fmt.Sprintf("%019d_%s", math.MaxInt64-processed.UnixNano(), r.ID)
}

func toEntity(r models.UploadReport) uploadEntity {
	return uploadEntity{
		Entity:      aztables.Entity{PartitionKey: uploadsPartition, RowKey: reportRowKey(r)},
		UploadID:    r.ID,
		BlobName:    r.BlobName,
		Filename:    r.Filename,
		RowsRead:    r.RowsRead,
		RowsKept:    r.RowsKept,
		RowsDropped: r.RowsDropped,
		FirstDate:   r.FirstDate,
		LastDate:    r.LastDate,
		Status:      string(r.Status),
		Error:       r.Error,
		ProcessedAt: r.ProcessedAt,
	}
}

func (e uploadEntity) report() models.UploadReport {
	return models.UploadReport{
		ID:          e.UploadID,
		BlobName:    e.BlobName,
		Filename:    e.Filename,
		RowsRead:    e.RowsRead,
		RowsKept:    e.RowsKept,
		RowsDropped: e.RowsDropped,
		FirstDate:   e.FirstDate,
		LastDate:    e.LastDate,
		Status:      models.UploadStatus(e.Status),
		Error:       e.Error,
		ProcessedAt: e.ProcessedAt,
	}
}

// SaveReport upserts the diagnostics of one upload.
func (s *UploadLogService) SaveReport(ctx context.Context, report models.UploadReport) error {
	entityJSON, err := json.Marshal(toEntity(report))
	if err != nil {
		return fmt.Errorf("failed to marshal upload report: %w", err)
	}
	if _, err := s.client.UpsertEntity(ctx, entityJSON, nil); err != nil {
		return fmt.Errorf("failed to save upload report %s: %w", report.ID, err)
	}
	slog.Info("saved upload report", "upload_id", report.ID, "status", report.Status)
	return nil
}

// ListReports returns up to limit reports, newest first.
func (s *UploadLogService) ListReports(ctx context.Context, limit int) ([]models.UploadReport, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s'", uploadsPartition)
	return s.query(ctx, filter, limit)
}

// LatestReport returns the newest successfully processed upload, or
// models.ErrNotFound.
func (s *UploadLogService) LatestReport(ctx context.Context) (*models.UploadReport, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s' and Status eq '%s'", uploadsPartition, models.UploadStatusProcessed)
	reports, err := s.query(ctx, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("processed upload: %w", models.ErrNotFound)
	}
	return &reports[0], nil
}

func (s *UploadLogService) query(ctx context.Context, filter string, limit int) ([]models.UploadReport, error) {
	top := int32(limit)
	pager := s.client.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
		Top:    &top,
	})

	reports := []models.UploadReport{}
	for pager.More() && len(reports) < limit {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list upload reports: %w", err)
		}
		for _, raw := range resp.Entities {
			var e uploadEntity
			if err := json.Unmarshal(raw, &e); err != nil {
				slog.Warn("skipping malformed upload report", "error", err)
				continue
			}
			reports = append(reports, e.report())
			if len(reports) == limit {
				break
			}
		}
	}
	return reports, nil
}
