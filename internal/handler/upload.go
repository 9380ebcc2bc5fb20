package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rocjay1/ledger-dashboard/internal/ledger"
	"github.com/rocjay1/ledger-dashboard/internal/models"
)

// HandleUpload stores an uploaded ledger export and queues it for processing.
func (d *Dependencies) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("upload attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	maxMB := d.Config.MaxUploadMB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxMB)<<20)
	if err := r.ParseMultipartForm(int64(maxMB) << 20); err != nil {
		slog.Warn("failed to parse multipart form", "error", err, "max_size_mb", maxMB)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Warn("failed to get file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if err := ledger.CheckFileType(filename); err != nil {
		slog.Warn("rejected upload", "filename", filename, "error", err)
		WritePipelineError(w, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read uploaded file", "filename", filename, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	slog.Info("received file upload", "filename", filename, "size_bytes", len(data))

	uploadID := uuid.NewString()
	blobName := fmt.Sprintf("%s/%s", uploadID, filename)
	container := d.Config.UploadsContainer

	if err := d.Blob.Upload(r.Context(), container, blobName, data); err != nil {
		slog.Error("failed to upload blob", "blob_name", blobName, "container", container, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to upload blob: "+err.Error())
		return
	}

	msg := models.UploadMessage{UploadID: uploadID, BlobName: blobName, Filename: filename}
	queue := d.Config.UploadsQueue
	if err := d.Queue.EnqueueMessage(r.Context(), queue, msg); err != nil {
		slog.Error("failed to enqueue message", "queue", queue, "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue message: "+err.Error())
		return
	}
	slog.Info("upload queued", "upload_id", uploadID, "queue", queue, "blob_name", blobName)

	WriteJSON(w, http.StatusAccepted, map[string]string{
		"status":    "queued",
		"upload_id": uploadID,
		"blob_name": blobName,
	})
}
