package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Therealjustindude/stack-guide/internal/upload"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testExtensions mirrors the production allow-list.
var testExtensions = []string{".md", ".txt", ".pdf", ".json", ".csv", ".xml", ".yaml", ".yml"}

const testMaxUploadSize = 10 << 20

// testServer builds a fully wired server over a throwaway upload directory.
// The rate limiter burst is high enough that tests never trip it.
func testServer(t *testing.T) *Server {
	t.Helper()

	store := upload.New(t.TempDir(), testMaxUploadSize, testExtensions, discardLogger())

	srv, err := NewServer(ServerConfig{
		Logger:    discardLogger(),
		Uploads:   store,
		RateBurst: 10000,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func TestNewServer(t *testing.T) {
	srv := testServer(t)

	if srv.Handler() == nil {
		t.Fatal("NewServer().Handler() returned nil")
	}
}

func TestNewServer_MissingUploadStore(t *testing.T) {
	_, err := NewServer(ServerConfig{Logger: discardLogger()})
	if err == nil {
		t.Fatal("NewServer(nil upload store) expected error, got nil")
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want %d", w.Code, http.StatusOK)
	}

	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want %q", got, "application/json")
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Version string `json:"version"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding health body: %v", err)
	}

	if body.Status != "healthy" {
		t.Errorf("status = %q, want %q", body.Status, "healthy")
	}
	if body.Service != "stackguide-go-backend" {
		t.Errorf("service = %q, want %q", body.Service, "stackguide-go-backend")
	}
	if body.Version != "1.0.0" {
		t.Errorf("version = %q, want %q", body.Version, "1.0.0")
	}
}

func TestRootEndpoint(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding root body: %v", err)
	}
	if got := body["message"]; got != "StackGuide API is running!" {
		t.Errorf("message = %q, want %q", got, "StackGuide API is running!")
	}
}

func TestReadyEndpoint_NoDatabase(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ready", nil)
	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /ready status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding ready body: %v", err)
	}
	if got := body["status"]; got != "ready" {
		t.Errorf("status = %v, want %q", got, "ready")
	}
	if got := body["database"]; got != "disabled" {
		t.Errorf("database = %v, want %q", got, "disabled")
	}
	if got := body["upload_dir_exists"]; got != true {
		t.Errorf("upload_dir_exists = %v, want true", got)
	}
}

// CORS headers must appear on every response: success, client error, and
// routes that do not exist. The browser UI relies on them unconditionally.
func TestCORSHeadersOnEveryResponse(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "health", method: http.MethodGet, path: "/health"},
		{name: "root", method: http.MethodGet, path: "/"},
		{name: "files", method: http.MethodGet, path: "/files"},
		{name: "upload without body", method: http.MethodPost, path: "/upload"},
		{name: "query missing param", method: http.MethodGet, path: "/api/query"},
		{name: "unknown route", method: http.MethodGet, path: "/nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.path, nil)
			srv.Handler().ServeHTTP(w, r)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "*")
			}
			if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
				t.Error("Access-Control-Allow-Methods should be set")
			}
			if got := w.Header().Get("Access-Control-Allow-Headers"); got == "" {
				t.Error("Access-Control-Allow-Headers should be set")
			}
		})
	}
}

func TestPreflightOptions(t *testing.T) {
	srv := testServer(t)

	for _, path := range []string{"/health", "/upload", "/files", "/api/query", "/anything"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodOptions, path, nil)
			r.Header.Set("Origin", "http://localhost:3000")
			srv.Handler().ServeHTTP(w, r)

			if w.Code != http.StatusNoContent {
				t.Fatalf("OPTIONS %s status = %d, want %d", path, w.Code, http.StatusNoContent)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "*")
			}
			if w.Body.Len() != 0 {
				t.Errorf("OPTIONS %s body = %q, want empty", path, w.Body.String())
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, r)

	id := w.Header().Get("X-Request-ID")
	if id == "" {
		t.Fatal("X-Request-ID header not set")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("X-Request-ID = %q is not a valid UUID: %v", id, err)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("GET /does-not-exist status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/files", nil)
	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /files status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestQueryEndpoint(t *testing.T) {
	srv := testServer(t)

	t.Run("missing parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/query", nil)
		srv.Handler().ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("GET /api/query status = %d, want %d", w.Code, http.StatusBadRequest)
		}

		var body errorResponse
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decoding error body: %v", err)
		}
		if body.Error != "Missing query parameter: q" {
			t.Errorf("error = %q, want %q", body.Error, "Missing query parameter: q")
		}
	})

	t.Run("placeholder answer", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/query?q=how+do+I+deploy", nil)
		srv.Handler().ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("GET /api/query status = %d, want %d", w.Code, http.StatusOK)
		}

		// Citations must serialize as [], not null.
		if !strings.Contains(w.Body.String(), `"citations":[]`) {
			t.Errorf("body = %s, want citations to be an empty array", w.Body.String())
		}

		var body queryResponse
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decoding query body: %v", err)
		}
		if body.Query != "how do I deploy" {
			t.Errorf("query = %q, want %q", body.Query, "how do I deploy")
		}
		if body.Answer != "This is a placeholder response. Query processing coming soon!" {
			t.Errorf("answer = %q", body.Answer)
		}
		if body.Confidence != 0.0 {
			t.Errorf("confidence = %v, want 0.0", body.Confidence)
		}
	})
}
