package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// HTTPTriggerRequest is the JSON envelope the Functions host posts for an
// HTTP trigger when request forwarding is disabled.
type HTTPTriggerRequest struct {
	Data struct {
		Req triggerRequest `json:"req"`
	} `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

type triggerRequest struct {
	URL             string              `json:"Url"`
	Method          string              `json:"Method"`
	Query           map[string]string   `json:"Query"`
	Headers         map[string][]string `json:"Headers"`
	Params          map[string]string   `json:"Params"`
	Body            string              `json:"Body"`
	IsBase64Encoded bool                `json:"isBase64Encoded"`
}

// HTTPTriggerResponse is the envelope returned to the host.
type HTTPTriggerResponse struct {
	Outputs struct {
		Res triggerResponse `json:"res"`
	} `json:"Outputs"`
	Logs        []string `json:"Logs,omitempty"`
	ReturnValue any      `json:"ReturnValue,omitempty"`
}

type triggerResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// decodeBody returns the request body. Some hosts send base64 without
// setting isBase64Encoded, so undecodable text is used as is.
func (t triggerRequest) decodeBody() []byte {
	if t.Body == "" {
		return nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(t.Body); err == nil {
		return decoded
	} else if t.IsBase64Encoded {
		slog.Warn("body flagged as base64 but failed to decode", "error", err)
	}
	return []byte(t.Body)
}

// toHTTPRequest rebuilds the wrapped request. Query values from the
// envelope are merged into the URL.
func (t triggerRequest) toHTTPRequest(parent *http.Request) (*http.Request, error) {
	u, err := url.Parse(t.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL %q: %w", t.URL, err)
	}
	q := u.Query()
	for k, v := range t.Query {
		if !q.Has(k) {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var body io.Reader = http.NoBody
	if b := t.decodeBody(); b != nil {
		body = bytes.NewReader(b)
	}
	method := t.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(parent.Context(), method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create internal request: %w", err)
	}
	for k, values := range t.Headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

func toTriggerResponse(rec *httptest.ResponseRecorder) HTTPTriggerResponse {
	result := rec.Result()
	defer result.Body.Close()
	body, _ := io.ReadAll(result.Body)

	headers := make(map[string]string, len(result.Header))
	for k, v := range result.Header {
		headers[k] = strings.Join(v, ", ")
	}

	var resp HTTPTriggerResponse
	resp.Outputs.Res = triggerResponse{StatusCode: result.StatusCode, Headers: headers, Body: string(body)}
	return resp
}

// HandleHttpTrigger adapts the Functions JSON envelope to a plain HTTP
// request, serves it with next and wraps the response back up.
func (d *Dependencies) HandleHttpTrigger(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var envelope HTTPTriggerRequest
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			slog.Error("failed to unmarshal HTTP trigger request", "error", err)
			http.Error(w, "Failed to unmarshal request", http.StatusBadRequest)
			return
		}

		req, err := envelope.Data.Req.toHTTPRequest(r)
		if err != nil {
			slog.Error("failed to build wrapped request", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Info("processing wrapped HTTP request",
			"method", req.Method,
			"path", req.URL.Path,
			"content_type", req.Header.Get("Content-Type"),
		)

		rec := httptest.NewRecorder()
		next.ServeHTTP(rec, req)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(toTriggerResponse(rec)); err != nil {
			slog.Error("failed to encode HTTP trigger response", "error", err)
		}
	}
}
