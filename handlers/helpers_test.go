// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/hibah-admin/apiclient"
	"github.com/danielhkuo/hibah-admin/auth"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/middleware"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/testutil"
)

func newClient(t *testing.T, api *testutil.FakeAPI) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(api.URL(), apiclient.Options{Timeout: 5 * time.Second, CacheTTL: -1})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

func newTokens() *confirm.Tokens {
	return confirm.NewTokens(testutil.TestConfirmSalt, time.Minute)
}

// as attaches a session for subject with role, the way the auth middleware does.
func as(t *testing.T, req *http.Request, subject, role string) *http.Request {
	t.Helper()
	s, err := auth.ParseSession(testutil.MintToken(t, subject, role), testutil.TestSessionSecret)
	if err != nil {
		t.Fatalf("Failed to parse session: %v", err)
	}
	return req.WithContext(auth.WithSession(req.Context(), s))
}

// pendingToken asserts a 202 and returns its confirmation token.
func pendingToken(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	testutil.AssertStatus(t, w, http.StatusAccepted)
	var resp models.ConfirmationResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("Expected a confirmation token")
	}
	return resp.Token
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set(middleware.HeaderConfirmToken, token)
	return req
}
