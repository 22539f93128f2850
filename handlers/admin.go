// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/middleware"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/selection"
	"github.com/danielhkuo/hibah-admin/workflow"
)

// AdminHandler serves the proposal selection screens.
type AdminHandler struct {
	svc    *selection.Service
	tokens *confirm.Tokens
}

func NewAdminHandler(svc *selection.Service, tokens *confirm.Tokens) *AdminHandler {
	return &AdminHandler{svc: svc, tokens: tokens}
}

// ListProposals handles GET /admin/proposals?stage=&search=
func (h *AdminHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	stage, err := workflow.ParseStage(r.URL.Query().Get("stage"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	proposals, err := h.svc.ListByStage(r.Context(), stage, r.URL.Query().Get("search"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, proposals)
}

// Approve handles POST /admin/proposals/{id}/approve
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id is required")
		return
	}

	c := h.tokens.ForRequest(r.Header.Get(middleware.HeaderConfirmToken))
	p, err := h.svc.ApproveAdmin(r.Context(), c, id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("proposal approved", "proposal_id", id)
	middleware.JSONResponse(w, http.StatusOK, p)
}

// Reject handles POST /admin/proposals/{id}/reject
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id is required")
		return
	}

	var req models.RejectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.svc.RejectAdmin(r.Context(), id, req.Reason)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("proposal rejected", "proposal_id", id)
	middleware.JSONResponse(w, http.StatusOK, p)
}

// Plotting handles GET /admin/proposals/{id}/plotting
func (h *AdminHandler) Plotting(w http.ResponseWriter, r *http.Request) {
	draft, err := h.svc.OpenPlottingFor(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, draft)
}

// AssignReviewers handles PUT /admin/proposals/{id}/reviewers
func (h *AdminHandler) AssignReviewers(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id is required")
		return
	}

	var req models.AssignReviewersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.svc.AssignReviewers(r.Context(), id, req.Reviewer1ID, req.Reviewer2ID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("reviewers assigned", "proposal_id", id, "reviewers", p.ReviewerIDs())
	middleware.JSONResponse(w, http.StatusOK, p)
}
