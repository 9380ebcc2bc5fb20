package models

// UploadStatus is the processing state of an uploaded ledger file.
type UploadStatus string

const (
	UploadStatusProcessed UploadStatus = "processed"
	UploadStatusFailed    UploadStatus = "failed"
)

// UploadReport captures the diagnostics of one processed upload.
type UploadReport struct {
	ID          string       `json:"id"`
	BlobName    string       `json:"blob_name"`
	Filename    string       `json:"filename"`
	RowsRead    int          `json:"rows_read"`
	RowsKept    int          `json:"rows_kept"`
	RowsDropped int          `json:"rows_dropped"`
	FirstDate   string       `json:"first_date,omitempty"` // YYYY-MM-DD
	LastDate    string       `json:"last_date,omitempty"`
	Status      UploadStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	ProcessedAt string       `json:"processed_at"` // RFC3339
}

// UploadMessage is the queue notification for a stored upload.
type UploadMessage struct {
	UploadID string `json:"upload_id"`
	BlobName string `json:"blob_name"`
	Filename string `json:"filename"`
}
