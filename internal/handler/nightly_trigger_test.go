package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHandleNightlyTrigger_Success(t *testing.T) {
	mockUploads := &MockUploadLogClient{}
	mockEmail := &MockEmailClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Blob: mockBlob, Uploads: mockUploads, Email: mockEmail, Config: testConfig()}

	mockUploads.LatestReportFunc = func(ctx context.Context) (*models.UploadReport, error) {
		return &models.UploadReport{ID: "u1", BlobName: "u1/ledger.csv", Status: models.UploadStatusProcessed}, nil
	}
	mockBlob.DownloadFunc = func(ctx context.Context, containerName, blobName string) ([]byte, error) {
		assert.Equal(t, "uploads", containerName)
		assert.Equal(t, "u1/ledger.csv", blobName)
		return []byte(scenarioCSV), nil
	}

	emailSent := false
	mockEmail.SendDigestEmailFunc = func(ctx context.Context, recipients []string, digest models.Digest) error {
		emailSent = true
		assert.Equal(t, []string{"test@example.com"}, recipients)
		assert.Equal(t, models.Month{Year: 2024, Month: time.February}, digest.Month)
		assert.True(t, digest.Expense.Equal(decimal.NewFromInt(30)))
		return nil
	}

	req := httptest.NewRequest(http.MethodPost, "/NightlyTrigger", nil)
	w := httptest.NewRecorder()

	deps.HandleNightlyTrigger(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, emailSent, "Digest email should have been sent")
}

func TestHandleNightlyTrigger_NoUserEmail(t *testing.T) {
	cfg := testConfig()
	cfg.UserEmail = ""
	mockUploads := &MockUploadLogClient{}
	deps := &Dependencies{Uploads: mockUploads, Config: cfg}

	mockUploads.LatestReportFunc = func(ctx context.Context) (*models.UploadReport, error) {
		t.Error("uploads should not be queried without USER_EMAIL")
		return nil, nil
	}

	w := httptest.NewRecorder()
	deps.HandleNightlyTrigger(w, httptest.NewRequest(http.MethodPost, "/NightlyTrigger", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleNightlyTrigger_NoUploads(t *testing.T) {
	mockEmail := &MockEmailClient{}
	deps := &Dependencies{Uploads: &MockUploadLogClient{}, Email: mockEmail, Config: testConfig()}

	mockEmail.SendDigestEmailFunc = func(ctx context.Context, recipients []string, digest models.Digest) error {
		t.Error("no digest expected without uploads")
		return nil
	}

	w := httptest.NewRecorder()
	deps.HandleNightlyTrigger(w, httptest.NewRequest(http.MethodPost, "/NightlyTrigger", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleNightlyTrigger_EmailError(t *testing.T) {
	mockUploads := &MockUploadLogClient{}
	mockEmail := &MockEmailClient{}
	deps := &Dependencies{Blob: blobWith(scenarioCSV), Uploads: mockUploads, Email: mockEmail, Config: testConfig()}

	mockUploads.LatestReportFunc = func(ctx context.Context) (*models.UploadReport, error) {
		return &models.UploadReport{BlobName: "u1/ledger.csv"}, nil
	}
	mockEmail.SendDigestEmailFunc = func(ctx context.Context, recipients []string, digest models.Digest) error {
		return errors.New("smtp down")
	}

	w := httptest.NewRecorder()
	deps.HandleNightlyTrigger(w, httptest.NewRequest(http.MethodPost, "/NightlyTrigger", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleNightlyTrigger_UploadLogError(t *testing.T) {
	mockUploads := &MockUploadLogClient{}
	deps := &Dependencies{Uploads: mockUploads, Config: testConfig()}

	mockUploads.LatestReportFunc = func(ctx context.Context) (*models.UploadReport, error) {
		return nil, errors.New("table unavailable")
	}

	w := httptest.NewRecorder()
	deps.HandleNightlyTrigger(w, httptest.NewRequest(http.MethodPost, "/NightlyTrigger", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
