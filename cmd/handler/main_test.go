package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware_RestoresBody(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.WriteHeader(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodPost, "/ProcessQueue", strings.NewReader(`{"Data":{}}`))
	w := httptest.NewRecorder()

	loggingMiddleware(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, `{"Data":{}}`, got)
}

func TestBodyPreview(t *testing.T) {
	long := strings.Repeat("a", bodyPreviewLimit+10)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(long))
	assert.Equal(t, strings.Repeat("a", bodyPreviewLimit)+"...", bodyPreview(req))

	rest, _ := io.ReadAll(req.Body)
	assert.Len(t, rest, len(long))

	multipart := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("--boundary"))
	multipart.Header.Set("Content-Type", "multipart/form-data; boundary=boundary")
	assert.Empty(t, bodyPreview(multipart))
}
