package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocjay1/ledger-dashboard/internal/dashboard"
	"github.com/rocjay1/ledger-dashboard/internal/models"
)

const digestSize = 5

// HandleNightlyTrigger emails a digest of the latest month of the most
// recently processed upload.
func (d *Dependencies) HandleNightlyTrigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slog.Info("Starting nightly trigger processing")

	if d.Config.UserEmail == "" || d.Email == nil {
		slog.Warn("USER_EMAIL is not set or email is disabled; skipping digest")
		w.WriteHeader(http.StatusOK)
		return
	}

	latest, err := d.Uploads.LatestReport(ctx)
	if errors.Is(err, models.ErrNotFound) {
		slog.Info("No processed uploads yet; skipping digest")
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		slog.Error("Failed to fetch latest upload", "error", err)
		http.Error(w, "Failed to fetch latest upload", http.StatusInternalServerError)
		return
	}

	l, _, err := d.loadLedger(ctx, latest.BlobName)
	if err != nil {
		slog.Error("Failed to load latest upload", "blob_name", latest.BlobName, "error", err)
		http.Error(w, "Failed to load latest upload", http.StatusInternalServerError)
		return
	}

	digest := dashboard.Digest(l, d.Config.IncludeLoan, digestSize)
	slog.Info("Sending digest",
		"upload_id", latest.ID,
		"month", digest.Month.String(),
		"expense", digest.Expense.StringFixed(2),
		"income", digest.Income.StringFixed(2))

	if err := d.Email.SendDigestEmail(ctx, []string{d.Config.UserEmail}, digest); err != nil {
		slog.Error("Failed to send digest email", "email", d.Config.UserEmail, "error", err)
		http.Error(w, "Failed to send digest", http.StatusInternalServerError)
		return
	}

	slog.Info("Nightly trigger processing complete")
	w.WriteHeader(http.StatusOK)
}
