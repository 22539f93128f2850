// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/hibah-admin/models"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// completedLine returns the "request completed" record from buf.
func completedLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("Bad log line %q: %v", line, err)
		}
		if rec["msg"] == "request completed" {
			return rec
		}
	}
	t.Fatalf("No completion record in logs: %s", buf.String())
	return nil
}

func TestWithLogging_RecordsStatus(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			},
			want: http.StatusAccepted,
		},
		{
			name: "body without WriteHeader",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok"))
			},
			want: http.StatusOK,
		},
		{
			name:    "nothing written",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			want:    http.StatusOK,
		},
		{
			name: "first status wins",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: http.StatusConflict,
		},
		{
			name: "error helper",
			handler: func(w http.ResponseWriter, r *http.Request) {
				ErrorResponse(w, http.StatusUnprocessableEntity, "alasan wajib diisi")
			},
			want: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logs := captureLogs(t)
			w := httptest.NewRecorder()

			WithLogging(tc.handler)(w, httptest.NewRequest("POST", "/admin/proposals/P1/reject", nil))

			if w.Code != tc.want {
				t.Errorf("Expected response status %d, got %d", tc.want, w.Code)
			}
			rec := completedLine(t, logs)
			if got := int(rec["status"].(float64)); got != tc.want {
				t.Errorf("Expected logged status %d, got %d", tc.want, got)
			}
			if rec["path"] != "/admin/proposals/P1/reject" {
				t.Errorf("Unexpected logged path %v", rec["path"])
			}
			if _, ok := rec["duration_ms"]; !ok {
				t.Error("Expected duration_ms in log record")
			}
		})
	}
}

func TestWithLogging_CarriesRequestID(t *testing.T) {
	logs := captureLogs(t)
	handler := WithRequestID(WithLogging(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(HeaderRequestID, "trace-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if rec := completedLine(t, logs); rec["request_id"] != "trace-7" {
		t.Errorf("Expected request_id trace-7, got %v", rec["request_id"])
	}
}

func TestWithRequestID(t *testing.T) {
	exact := strings.Repeat("a", 64)
	tooLong := strings.Repeat("a", 65)

	testCases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"no header", "", false},
		{"short id kept", "req-42", true},
		{"64 characters kept", exact, true},
		{"65 characters replaced", tooLong, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFrom(r.Context())
			}))

			req := httptest.NewRequest("GET", "/health", nil)
			if tc.incoming != "" {
				req.Header.Set(HeaderRequestID, tc.incoming)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if got := w.Header().Get(HeaderRequestID); got != seen {
				t.Errorf("Response header %q does not echo context id %q", got, seen)
			}
			if tc.keep {
				if seen != tc.incoming {
					t.Errorf("Expected incoming id to be kept, got %q", seen)
				}
				return
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("Expected a generated uuid, got %q", seen)
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	under := `{"reason":"` + strings.Repeat("a", maxBodyBytes-32) + `"}`
	over := `{"reason":"` + strings.Repeat("a", maxBodyBytes) + `"}`

	testCases := []struct {
		name    string
		body    string
		wantErr error
		fails   bool
		reason  string
	}{
		{name: "valid", body: `{"reason":"anggaran tidak wajar"}`, reason: "anggaran tidak wajar"},
		{name: "empty", body: "", wantErr: ErrEmptyBody, fails: true},
		{name: "malformed", body: `{"reason":`, fails: true},
		{name: "wrong type", body: `{"reason":42}`, fails: true},
		{name: "just under limit", body: under, reason: strings.Repeat("a", maxBodyBytes-32)},
		{name: "over limit", body: over, fails: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/admin/proposals/P1/reject", strings.NewReader(tc.body))
			var got models.RejectRequest

			err := ParseJSONBody(req, &got)

			if !tc.fails {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if got.Reason != tc.reason {
					t.Errorf("Reason not decoded (len %d)", len(got.Reason))
				}
				return
			}
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && errors.Is(err, ErrEmptyBody) {
				t.Errorf("Non-empty body reported as empty: %v", err)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	ErrorResponse(w, http.StatusNotFound, "Proposal tidak ditemukan")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Not Found" || body.Message != "Proposal tidak ditemukan" || body.Errors != nil {
		t.Errorf("Unexpected envelope %+v", body)
	}
}

func TestCORS(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantNext   bool
	}{
		{"preflight", "OPTIONS", "http://localhost:5173", "http://localhost:5173", false},
		{"request with origin", "POST", "https://admin.kampus.ac.id", "https://admin.kampus.ac.id", true},
		{"request without origin", "GET", "", "*", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(tc.method, "/admin/proposals/P1/approve", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if called != tc.wantNext {
				t.Errorf("Expected next called = %v", tc.wantNext)
			}
			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
			h := w.Header()
			if got := h.Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Errorf("Expected origin %q, got %q", tc.wantOrigin, got)
			}
			if got := h.Get("Access-Control-Expose-Headers"); got != HeaderRequestID {
				t.Errorf("Expected %s exposed, got %q", HeaderRequestID, got)
			}
			for _, want := range []string{HeaderConfirmToken, HeaderRequestID, "Authorization"} {
				if !strings.Contains(h.Get("Access-Control-Allow-Headers"), want) {
					t.Errorf("Expected %s in allowed headers", want)
				}
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"first forwarded hop", map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"}, "127.0.0.1:1", "203.0.113.195"},
		{"forwarded beats real ip", map[string]string{"X-Forwarded-For": "192.0.2.1", "X-Real-IP": "192.0.2.2"}, "127.0.0.1:1", "192.0.2.1"},
		{"real ip", map[string]string{"X-Real-IP": "192.0.2.2"}, "127.0.0.1:1", "192.0.2.2"},
		{"remote addr port stripped", nil, "198.51.100.7:5555", "198.51.100.7"},
		{"remote addr without port", nil, "198.51.100.7", "198.51.100.7"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if got := GetClientIP(req); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}
