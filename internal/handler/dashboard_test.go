package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func viewRequestFor(view, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/"+view+"?"+query, nil)
	req.SetPathValue("view", view)
	return req
}

func TestHandleDashboard_Success(t *testing.T) {
	deps := &Dependencies{Blob: blobWith(scenarioCSV), Config: testConfig()}
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?blob=u1/ledger.csv", nil)
	w := httptest.NewRecorder()

	deps.HandleDashboard(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Len(t, body["monthly"], 2)
	assert.Len(t, body["ratio"], 2)
	assert.NotNil(t, body["forecast"])
	assert.Nil(t, body["forecast_error"])

	chartsBody, ok := body["charts"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, chartsBody, "monthly")
	assert.Contains(t, chartsBody, "distribution")
	assert.Contains(t, chartsBody, "ratio")
	assert.Contains(t, chartsBody, "forecast")
}

func TestHandleDashboard_ForecastFailureKeepsOtherViews(t *testing.T) {
	deps := &Dependencies{Blob: blobWith(scenarioCSV), Config: testConfig()}
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?blob=u1/ledger.csv&period=20", nil)
	w := httptest.NewRecorder()

	deps.HandleDashboard(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Len(t, body["monthly"], 2)
	assert.Contains(t, body["forecast_error"], "insufficient data")
	assert.Nil(t, body["forecast"])
}

func TestHandleDashboard_Errors(t *testing.T) {
	notFound := &MockBlobClient{
		DownloadFunc: func(ctx context.Context, containerName, blobName string) ([]byte, error) {
			return nil, models.ErrNotFound
		},
	}
	emptyCSV := "Date,Income/Expense,Category,SEK\nnever,Expense,Food,10\n"

	tests := []struct {
		name           string
		blob           BlobClient
		query          string
		expectedStatus int
		expectedBody   string
	}{
		{name: "missing blob", blob: blobWith(scenarioCSV), query: "", expectedStatus: http.StatusBadRequest, expectedBody: "missing blob parameter"},
		{name: "blob not found", blob: notFound, query: "blob=u1/ledger.csv", expectedStatus: http.StatusNotFound},
		{name: "unsupported file type", blob: blobWith("%PDF"), query: "blob=u1/ledger.pdf", expectedStatus: http.StatusUnsupportedMediaType},
		{name: "empty ledger", blob: blobWith(emptyCSV), query: "blob=u1/ledger.csv", expectedStatus: http.StatusUnprocessableEntity, expectedBody: `"rows_dropped":1`},
		{name: "invalid period", blob: blobWith(scenarioCSV), query: "blob=u1/ledger.csv&period=1", expectedStatus: http.StatusBadRequest, expectedBody: "invalid period"},
		{name: "invalid includeLoan", blob: blobWith(scenarioCSV), query: "blob=u1/ledger.csv&includeLoan=maybe", expectedStatus: http.StatusBadRequest},
		{name: "invalid chart", blob: blobWith(scenarioCSV), query: "blob=u1/ledger.csv&chart=pie", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := &Dependencies{Blob: tt.blob, Config: testConfig()}
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard?"+tt.query, nil)
			w := httptest.NewRecorder()

			deps.HandleDashboard(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestHandleDashboardView(t *testing.T) {
	tests := []struct {
		name           string
		view           string
		query          string
		expectedStatus int
		check          func(t *testing.T, body map[string]any)
	}{
		{
			name: "monthly", view: "monthly", expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Len(t, body["monthly"], 2)
				assert.Contains(t, body, "totals")
				assert.Contains(t, body, "chart")
			},
		},
		{
			name: "categories", view: "categories", expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Len(t, body["expense_categories"], 1)
			},
		},
		{
			name: "ratio", view: "ratio", expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, []any{2.0, 2.0}, body["range"])
				points := body["ratio"].([]any)
				require.Len(t, points, 2)
				assert.Nil(t, points[1].(map[string]any)["value"])
			},
		},
		{
			name: "forecast", view: "forecast", expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body, "forecast")
				assert.Contains(t, body, "chart")
			},
		},
		{name: "forecast with too few points", view: "forecast", query: "period=20", expectedStatus: http.StatusUnprocessableEntity},
		{
			name: "category trend", view: "category-trend", query: "category=Food", expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Food", body["category"])
				assert.Len(t, body["trend"], 2)
			},
		},
		{name: "category trend without category", view: "category-trend", expectedStatus: http.StatusBadRequest},
		{
			name: "subcategory", view: "subcategory", query: "name=Groceries&year=2024", expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Groceries", body["subcategory"])
				assert.NotEmpty(t, body["series"])
			},
		},
		{name: "subcategory with bad year", view: "subcategory", query: "name=Groceries&year=soon", expectedStatus: http.StatusBadRequest},
		{
			name: "monthly heatmap", view: "heatmap", query: "type=monthly", expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Len(t, body["cells"], 2)
			},
		},
		{name: "heatmap with bad type", view: "heatmap", query: "type=weekly", expectedStatus: http.StatusBadRequest},
		{
			name: "largest", view: "largest", query: "n=1", expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				txns := body["transactions"].([]any)
				require.Len(t, txns, 1)
				assert.Equal(t, "Groceries", txns[0].(map[string]any)["subcategory"])
			},
		},
		{name: "largest with n out of range", view: "largest", query: "n=0", expectedStatus: http.StatusBadRequest},
		{
			name: "search", view: "search", query: "q=LUNCH", expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, 1.0, body["count"])
			},
		},
		{name: "search without query", view: "search", expectedStatus: http.StatusBadRequest},
		{
			name: "suggestions", view: "suggestions", expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, []any{"Food", "Groceries", "Restaurant", "Salary", "lunch"}, body["suggestions"])
			},
		},
		{name: "unknown view", view: "pie", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := &Dependencies{Blob: blobWith(scenarioCSV), Config: testConfig()}
			query := "blob=u1/ledger.csv"
			if tt.query != "" {
				query += "&" + tt.query
			}
			w := httptest.NewRecorder()

			deps.HandleDashboardView(w, viewRequestFor(tt.view, query))

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, decodeJSON(t, w))
			}
		})
	}
}
