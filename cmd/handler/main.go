package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rocjay1/ledger-dashboard/internal/config"
	"github.com/rocjay1/ledger-dashboard/internal/handler"
	"github.com/rocjay1/ledger-dashboard/internal/services"
	"github.com/shopspring/decimal"
)

const bodyPreviewLimit = 512

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize Services
	blobService, err := services.NewBlobService(cfg.BlobServiceURL)
	if err != nil {
		slog.Error("Failed to init BlobService", "error", err)
		os.Exit(1)
	}

	queueService, err := services.NewQueueService(cfg.QueueServiceURL)
	if err != nil {
		slog.Error("Failed to init QueueService", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	uploadLog, err := services.NewUploadLogService(ctx, cfg.TableServiceURL, cfg.UploadsTable)
	cancel()
	if err != nil {
		slog.Error("Failed to init UploadLogService", "error", err)
		os.Exit(1)
	}

	deps := &handler.Dependencies{
		Blob:    blobService,
		Queue:   queueService,
		Uploads: uploadLog,
		Config:  cfg,
	}

	emailService, err := services.NewEmailService(cfg.CommunicationServicesEndpoint, cfg.SenderEmail, cfg.Currency, nil)
	if err != nil {
		slog.Warn("Failed to init EmailService (continuing without email)", "error", err)
	} else {
		deps.Email = emailService
	}

	// Router
	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("POST /api/upload", deps.HandleUpload)
	mux.HandleFunc("GET /api/uploads", deps.HandleListUploads)
	mux.HandleFunc("GET /api/dashboard", deps.HandleDashboard)
	mux.HandleFunc("GET /api/dashboard/{view}", deps.HandleDashboardView)

	// Adapter for HTTP Trigger (since enableForwardingHttpRequest is false)
	mux.HandleFunc("/HttpTrigger", deps.HandleHttpTrigger(mux))

	mux.HandleFunc("/ProcessQueue", deps.ProcessQueue)
	mux.HandleFunc("/NightlyTrigger", deps.HandleNightlyTrigger)

	// Catch-all handler for unmatched requests to debug what the Host is sending
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		headers := make(map[string]string)
		for k, v := range r.Header {
			headers[k] = strings.Join(v, ", ")
		}
		slog.Warn("UNMATCHED REQUEST",
			"method", r.Method,
			"path", r.URL.Path,
			"headers", headers,
			"content_length", r.ContentLength,
		)
		http.NotFound(w, r)
	})

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	loggedMux := loggingMiddleware(mux)

	slog.Info("Starting server", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, loggedMux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// bodyPreview returns the start of a request body for logging and restores
// the body. Multipart uploads are not previewed.
func bodyPreview(r *http.Request) string {
	if r.Body == nil || strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return ""
	}
	bodyBytes, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	if len(bodyBytes) > bodyPreviewLimit {
		return string(bodyBytes[:bodyPreviewLimit]) + "..."
	}
	return string(bodyBytes)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("incoming request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"content_type", r.Header.Get("Content-Type"),
			"content_length", r.ContentLength,
			"body_preview", bodyPreview(r),
		)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		slog.Info("request completed", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", duration)
	})
}
