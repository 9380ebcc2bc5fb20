package handler

import (
	"log/slog"
	"net/http"
	"strconv"
)

const defaultUploadsLimit = 20

// HandleListUploads returns recent upload reports, newest first.
func (d *Dependencies) HandleListUploads(w http.ResponseWriter, r *http.Request) {
	limit := defaultUploadsLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 1000 {
			WriteError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	reports, err := d.Uploads.ListReports(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list upload reports", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to list uploads")
		return
	}
	WriteJSON(w, http.StatusOK, reports)
}
