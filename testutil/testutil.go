// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/hibah-admin/auth"
	"github.com/danielhkuo/hibah-admin/cliparse"
	"github.com/danielhkuo/hibah-admin/db"
	"github.com/danielhkuo/hibah-admin/models"
)

// Test secrets
const (
	TestSessionSecret = "test-session-secret"
	TestConfirmSalt   = "test-confirm-salt"
)

// SetupTestStore creates a migrated SQLite audit store in a temp directory.
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "audit.db")

	if _, err := db.Migrate(ctx, db.SQLiteBackend, dsn, -1); err != nil {
		t.Fatalf("Failed to migrate audit store: %v", err)
	}
	store, err := db.Open(ctx, db.SQLiteBackend, dsn)
	if err != nil {
		t.Fatalf("Failed to open audit store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// GetTestConfig returns a standard test configuration pointing at apiURL.
func GetTestConfig(apiURL string) cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		APIBaseURL:    apiURL,
		APITimeout:    5 * time.Second,
		CacheTTL:      -1,
		SessionSecret: TestSessionSecret,
		ConfirmSalt:   TestConfirmSalt,
		ConfirmTTL:    5 * time.Minute,
		IPHashSalt:    TestConfirmSalt,
		LoginURL:      apiURL + "/login",
		AuditBackend:  "sqlite",
		LogLevel:      "error",
		LogFormat:     "text",
	}
}

// MintToken issues a session token for role. For reviewers the subject
// doubles as the reviewer id.
func MintToken(t *testing.T, subject, role string) string {
	t.Helper()
	s := auth.Session{Subject: subject, Name: "Test " + role, Role: role}
	if role == models.RoleReviewer {
		s.ReviewerID = subject
	}
	token, err := auth.IssueSession(s, TestSessionSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to mint session: %v", err)
	}
	return token
}

// Bearer returns an Authorization header map for token.
func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
