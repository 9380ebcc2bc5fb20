package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/config"
	"github.com/rocjay1/ledger-dashboard/internal/ledger"
	"github.com/rocjay1/ledger-dashboard/internal/models"
)

// Dependencies holds the services required by the handlers.
type Dependencies struct {
	Blob    BlobClient
	Queue   QueueClient
	Uploads UploadLogClient
	Email   EmailClient
	Config  *config.Config
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// loadLedger downloads an uploaded file and normalizes it.
func (d *Dependencies) loadLedger(ctx context.Context, blobName string) (models.Ledger, ledger.Report, error) {
	data, err := d.Blob.Download(ctx, d.Config.UploadsContainer, blobName)
	if err != nil {
		return models.Ledger{}, ledger.Report{}, fmt.Errorf("failed to download %s: %w", blobName, err)
	}
	return ledger.Load(path.Base(blobName), bytes.NewReader(data), d.Config.LedgerOptions())
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WritePipelineError maps ledger and forecast failures to HTTP statuses.
func WritePipelineError(w http.ResponseWriter, err error) {
	var (
		unsupported  *models.UnsupportedFileTypeError
		empty        *models.EmptyLedgerError
		insufficient *models.InsufficientDataError
	)
	switch {
	case errors.As(err, &unsupported):
		WriteError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &empty):
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":        err.Error(),
			"rows_read":    empty.RowsRead,
			"rows_dropped": empty.RowsDropped,
		})
	case errors.As(err, &insufficient):
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("pipeline failed", "error", err)
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
