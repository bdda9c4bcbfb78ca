package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aoideee/remember/internal/data"
)

// newTestApplication returns an application backed by the in-memory store
// with rate limiting off and logs discarded.
func newTestApplication(t *testing.T) *applicationDependencies {
	t.Helper()

	var cfg serverConfig
	cfg.environment = "testing"
	cfg.apiPrefix = "/api"
	cfg.storage = storageMemory
	cfg.cors.trustedOrigins = []string{"http://localhost:3000"}

	return &applicationDependencies{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		models: data.NewMemoryModels(),
	}
}

// testServer holds the routed handler of one application.
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T, app *applicationDependencies) *testServer {
	t.Helper()
	return &testServer{handler: app.routes()}
}

// do sends a request with an optional JSON body and returns the recorded response.
func (ts *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		js, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(js)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// wireBook mirrors the JSON form of a book response.
type wireBook struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	PublishDate *string `json:"publish_date"`
	Label       string  `json:"label"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

// createBook posts body and fails the test unless the book is created.
func (ts *testServer) createBook(t *testing.T, body map[string]any) wireBook {
	t.Helper()
	rr := ts.do(t, http.MethodPost, "/api/books/", body, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rr.Code, rr.Body.String())
	}
	return decode[wireBook](t, rr)
}
