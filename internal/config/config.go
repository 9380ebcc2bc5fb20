package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/charts"
	"github.com/rocjay1/ledger-dashboard/internal/dashboard"
	"github.com/rocjay1/ledger-dashboard/internal/ledger"
)

const referenceDateLayout = "2006-01-02"

// Config holds the settings of the handler and the report CLI.
type Config struct {
	// HTTP Server
	Port string

	// Azure Storage
	BlobServiceURL   string
	QueueServiceURL  string
	TableServiceURL  string
	UploadsContainer string
	UploadsQueue     string
	UploadsTable     string

	// Email
	CommunicationServicesEndpoint string
	SenderEmail                   string
	UserEmail                     string

	// Pipeline
	IncludeLoan    bool
	DateLayouts    []string
	Timezone       string
	ReferenceDate  string
	ReferenceLabel string
	Currency       string
	ForecastPeriod int
	MaxUploadMB    int

	LogLevel string
}

// Load reads the configuration from the environment, applying defaults.
// Call Validate or ValidatePipeline before use.
func Load() *Config {
	return &Config{
		Port: getEnv("FUNCTIONS_CUSTOMHANDLER_PORT", "8080"),

		BlobServiceURL:   getEnv("BLOB_SERVICE_URL", ""),
		QueueServiceURL:  getEnv("QUEUE_SERVICE_URL", ""),
		TableServiceURL:  getEnv("TABLE_SERVICE_URL", ""),
		UploadsContainer: getEnv("UPLOADS_CONTAINER", "uploads"),
		UploadsQueue:     getEnv("UPLOADS_QUEUE", "ledger-uploads"),
		UploadsTable:     getEnv("UPLOADS_TABLE", "uploads"),

		CommunicationServicesEndpoint: getEnv("COMMUNICATION_SERVICES_ENDPOINT", ""),
		SenderEmail:                   getEnv("SENDER_EMAIL", ""),
		UserEmail:                     getEnv("USER_EMAIL", ""),

		IncludeLoan:    getEnvBool("INCLUDE_LOAN", false),
		DateLayouts:    getEnvList("DATE_LAYOUTS", ledger.DefaultDateLayouts),
		Timezone:       getEnv("TIMEZONE", "UTC"),
		ReferenceDate:  getEnv("REFERENCE_DATE", ""),
		ReferenceLabel: getEnv("REFERENCE_LABEL", "Reference"),
		Currency:       getEnv("CURRENCY", "SEK"),
		ForecastPeriod: getEnvInt("FORECAST_PERIOD", dashboard.DefaultPeriod),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 10),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks everything the HTTP handler needs.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	services := []struct{ name, value string }{
		{"BLOB_SERVICE_URL", c.BlobServiceURL},
		{"QUEUE_SERVICE_URL", c.QueueServiceURL},
		{"TABLE_SERVICE_URL", c.TableServiceURL},
	}
	for _, s := range services {
		if s.value == "" {
			errors = append(errors, fmt.Sprintf("%s is required", s.name))
			continue
		}
		if u, err := url.Parse(s.value); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': must be an absolute URL", s.name, s.value))
		}
	}

	if c.UploadsContainer == "" || c.UploadsQueue == "" || c.UploadsTable == "" {
		errors = append(errors, "uploads container, queue and table names cannot be empty")
	}

	if c.MaxUploadMB < 1 || c.MaxUploadMB > 100 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %d MB: must be between 1 and 100", c.MaxUploadMB))
	}

	errors = append(errors, c.pipelineErrors()...)

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// ValidatePipeline checks only the settings used to load and aggregate a
// ledger, for tools that run without Azure.
func (c *Config) ValidatePipeline() error {
	if errors := c.pipelineErrors(); len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func (c *Config) pipelineErrors() []string {
	var errors []string

	if len(c.DateLayouts) == 0 {
		errors = append(errors, "at least one date layout is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}
	if c.ReferenceDate != "" {
		if _, err := time.Parse(referenceDateLayout, c.ReferenceDate); err != nil {
			errors = append(errors, fmt.Sprintf("invalid reference date '%s': must be YYYY-MM-DD", c.ReferenceDate))
		}
	}
	if c.ForecastPeriod < 2 {
		errors = append(errors, fmt.Sprintf("invalid forecast period %d: must be at least 2", c.ForecastPeriod))
	}
	if _, err := c.SlogLevel(); err != nil {
		errors = append(errors, err.Error())
	}
	return errors
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel)
	}
	return level, nil
}

// LedgerOptions returns the normalizer settings. An invalid timezone falls
// back to UTC.
func (c *Config) LedgerOptions() ledger.Options {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return ledger.Options{DateLayouts: c.DateLayouts, Location: loc}
}

// ChartOptions returns the presenter settings.
func (c *Config) ChartOptions() charts.Options {
	opts := charts.Options{Currency: c.Currency, ReferenceLabel: c.ReferenceLabel}
	if t, err := time.Parse(referenceDateLayout, c.ReferenceDate); err == nil {
		opts.ReferenceDate = t
	}
	return opts
}

// DashboardOptions returns the pipeline defaults, before any per-request
// overrides.
func (c *Config) DashboardOptions() dashboard.Options {
	return dashboard.Options{
		IncludeLoan: c.IncludeLoan,
		Period:      c.ForecastPeriod,
		Presenter:   charts.NewSpecPresenter(c.ChartOptions()),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvList splits a ';'-separated value. Layouts contain commas and spaces.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
