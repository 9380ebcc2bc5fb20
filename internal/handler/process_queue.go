package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rocjay1/ledger-dashboard/internal/aggregate"
	"github.com/rocjay1/ledger-dashboard/internal/ledger"
	"github.com/rocjay1/ledger-dashboard/internal/models"
)

// invokeRequest represents the payload from Azure Functions Custom Handler.
type invokeRequest struct {
	Data     map[string]any `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// decodeUploadMessage extracts the queue item. The host passes JSON queue
// messages either as a string or already decoded.
func decodeUploadMessage(data map[string]any) (models.UploadMessage, error) {
	var msg models.UploadMessage
	item, ok := data["queueItem"]
	if !ok {
		item, ok = data["queueitem"]
	}
	if !ok {
		return msg, errors.New("missing queueItem in Data")
	}

	var raw []byte
	switch v := item.(type) {
	case string:
		raw = []byte(v)
	case map[string]any:
		raw, _ = json.Marshal(v)
	default:
		return msg, fmt.Errorf("queueItem has unexpected type %T", item)
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, fmt.Errorf("invalid queueItem JSON: %w", err)
	}
	if msg.BlobName == "" {
		return msg, errors.New("missing blob_name")
	}
	if msg.Filename == "" {
		msg.Filename = path.Base(msg.BlobName)
	}
	if msg.UploadID == "" {
		msg.UploadID = uuid.NewString()
	}
	return msg, nil
}

// ProcessQueue handles the queue trigger: it loads the uploaded ledger,
// records an upload report and emails the outcome. Bad input is consumed;
// only storage failures are returned to the host for retry.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read queue request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var invokeReq invokeRequest
	if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
		slog.Error("failed to unmarshal queue request", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to unmarshal request")
		return
	}

	msg, err := decodeUploadMessage(invokeReq.Data)
	if err != nil {
		slog.Warn("invalid queue message", "error", err)
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Info("processing queue item", "upload_id", msg.UploadID, "blob_name", msg.BlobName)

	report := models.UploadReport{
		ID:          msg.UploadID,
		BlobName:    msg.BlobName,
		Filename:    msg.Filename,
		ProcessedAt: d.now().UTC().Format(time.RFC3339),
	}

	data, err := d.Blob.Download(ctx, d.Config.UploadsContainer, msg.BlobName)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		slog.Error("failed to download upload", "blob_name", msg.BlobName, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download upload: %v", err))
		return
	}

	var (
		l      models.Ledger
		parsed ledger.Report
	)
	if err == nil {
		l, parsed, err = ledger.Load(msg.Filename, bytes.NewReader(data), d.Config.LedgerOptions())
	}
	report.RowsRead, report.RowsKept, report.RowsDropped = parsed.RowsRead, parsed.RowsKept, parsed.RowsDropped

	if err != nil {
		slog.Warn("upload could not be processed", "blob_name", msg.BlobName, "error", err)
		report.Status = models.UploadStatusFailed
		report.Error = err.Error()
		if saveErr := d.Uploads.SaveReport(ctx, report); saveErr != nil {
			slog.Error("failed to save upload report", "upload_id", report.ID, "error", saveErr)
		}
		problems := append([]string{err.Error()}, parsed.Messages()...)
		d.notify(func(to []string) error {
			return d.Email.SendErrorEmail(ctx, to, msg.Filename, problems)
		})
		// Consume the message so it doesn't retry forever.
		w.WriteHeader(http.StatusOK)
		return
	}

	report.Status = models.UploadStatusProcessed
	report.FirstDate = l.Start().Format("2006-01-02")
	report.LastDate = l.End().Format("2006-01-02")
	if err := d.Uploads.SaveReport(ctx, report); err != nil {
		slog.Error("failed to save upload report", "upload_id", report.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save upload report: %v", err))
		return
	}

	totals := aggregate.Totals(l, aggregate.MonthlyOptions{IncludeLoan: d.Config.IncludeLoan})
	d.notify(func(to []string) error {
		return d.Email.SendSummaryEmail(ctx, to, report, totals, parsed.Messages())
	})

	slog.Info("queue processing complete",
		"upload_id", report.ID,
		"rows_kept", report.RowsKept,
		"rows_dropped", report.RowsDropped,
	)
	w.WriteHeader(http.StatusOK)
}

// notify sends an email to the configured user. Failures are logged only.
func (d *Dependencies) notify(send func(to []string) error) {
	if d.Config.UserEmail == "" || d.Email == nil {
		slog.Warn("USER_EMAIL is not set or email is disabled; skipping notification")
		return
	}
	if err := send([]string{d.Config.UserEmail}); err != nil {
		slog.Error("failed to send notification email", "email", d.Config.UserEmail, "error", err)
	}
}
