// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/hibah-admin/db"
	"github.com/danielhkuo/hibah-admin/middleware"
	"github.com/danielhkuo/hibah-admin/models"
)

// AuditLister reads the audit trail.
type AuditLister interface {
	List(ctx context.Context, f db.Filter) ([]models.AuditEntry, error)
}

type AuditHandler struct {
	store AuditLister
}

func NewAuditHandler(store AuditLister) *AuditHandler {
	return &AuditHandler{store: store}
}

// List handles GET /admin/audit?limit=&subject=&action=&since=
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := db.Filter{Subject: q.Get("subject"), Action: q.Get("action")}

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 || limit > 1000 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		f.Limit = limit
	}
	if s := q.Get("since"); s != "" {
		since, err := time.Parse(time.RFC3339, s)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "since must be an RFC 3339 time")
			return
		}
		f.Since = since
	}

	entries, err := h.store.List(r.Context(), f)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, entries)
}
