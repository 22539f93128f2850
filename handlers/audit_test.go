// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/hibah-admin/db"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/testutil"
)

func TestAuditList(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, e := range []models.AuditEntry{
		{ID: "a1", Action: "proposal.approve", Subject: "proposal/P1", Actor: "admin-1"},
		{ID: "a2", Action: "reviewers.assign", Subject: "proposal/P1", Actor: "admin-1"},
		{ID: "a3", Action: "master.delete", Subject: "office/3", Actor: "admin-2"},
	} {
		e.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := store.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	handler := NewAuditHandler(store)

	testCases := []struct {
		name  string
		query string
		code  int
		want  []string
	}{
		{"all newest first", "", http.StatusOK, []string{"a3", "a2", "a1"}},
		{"by subject", "?subject=proposal/P1", http.StatusOK, []string{"a2", "a1"}},
		{"by action", "?action=master.delete", http.StatusOK, []string{"a3"}},
		{"since", "?since=2026-05-01T09:00:00Z", http.StatusOK, []string{"a3", "a2"}},
		{"limit", "?limit=1", http.StatusOK, []string{"a3"}},
		{"bad limit", "?limit=0", http.StatusBadRequest, nil},
		{"bad since", "?since=yesterday", http.StatusBadRequest, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.List(w, httptest.NewRequest("GET", "/admin/audit"+tc.query, nil))

			testutil.AssertStatus(t, w, tc.code)
			if tc.code != http.StatusOK {
				return
			}
			var got []models.AuditEntry
			testutil.AssertJSON(t, w, &got)
			if len(got) != len(tc.want) {
				t.Fatalf("Expected %d entries, got %d", len(tc.want), len(got))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("Entry %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

type failingLister struct{}

func (failingLister) List(context.Context, db.Filter) ([]models.AuditEntry, error) {
	return nil, errors.New("disk on fire")
}

func TestAuditListStoreError(t *testing.T) {
	w := httptest.NewRecorder()
	NewAuditHandler(failingLister{}).List(w, httptest.NewRequest("GET", "/admin/audit", nil))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		code   int
		status string
	}{
		{"healthy", nil, http.StatusOK, "ok"},
		{"audit down", errors.New("connection refused"), http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHealthHandler(stubPinger{tc.err}).Health(w, httptest.NewRequest("GET", "/health", nil))

			testutil.AssertStatus(t, w, tc.code)
			var resp healthResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Status != tc.status {
				t.Errorf("Expected %s, got %s", tc.status, resp.Status)
			}
		})
	}
}
