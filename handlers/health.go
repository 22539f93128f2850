// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/hibah-admin/middleware"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	audit Pinger
}

func NewHealthHandler(audit Pinger) *HealthHandler {
	return &HealthHandler{audit: audit}
}

type healthResponse struct {
	Status string `json:"status"`
	Audit  string `json:"audit"`
}

// Health handles GET /health. Only the audit store is probed.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.audit.Ping(ctx); err != nil {
		slog.Error("audit store unreachable", "error", err)
		middleware.JSONResponse(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Audit: "unreachable"})
		return
	}
	middleware.JSONResponse(w, http.StatusOK, healthResponse{Status: "ok", Audit: "ok"})
}
