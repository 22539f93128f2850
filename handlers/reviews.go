// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/hibah-admin/auth"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/middleware"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/scoring"
)

// ReviewHandler serves the reviewer scoring screen. Every request opens its
// own scoring session; nothing is kept between requests.
type ReviewHandler struct {
	svc    *scoring.Service
	tokens *confirm.Tokens
}

func NewReviewHandler(svc *scoring.Service, tokens *confirm.Tokens) *ReviewHandler {
	return &ReviewHandler{svc: svc, tokens: tokens}
}

func (h *ReviewHandler) open(w http.ResponseWriter, r *http.Request) (*scoring.Session, bool) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id is required")
		return nil, false
	}

	session, _ := auth.SessionFrom(r.Context())
	reviewerID := session.ReviewerID
	if reviewerID == "" {
		reviewerID = session.Subject
	}

	sess, err := h.svc.OpenReview(r.Context(), id, reviewerID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return nil, false
	}
	return sess, true
}

// Get handles GET /reviews/{id}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sess.View())
}

// Preview handles POST /reviews/{id}/preview. Scores are clamped and the
// total recomputed without submitting anything.
func (h *ReviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	if err := sess.SetScores(req.Scores); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sess.View())
}

// Submit handles POST /reviews/{id}
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitReviewRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	if err := sess.SetScores(req.Scores); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	c := h.tokens.ForRequest(r.Header.Get(middleware.HeaderConfirmToken))
	result, err := sess.Submit(r.Context(), c, string(req.Recommendation), req.Comments)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("review submitted",
		"proposal_id", result.ProposalID,
		"total", result.Total,
		"recommendation", result.Recommendation,
	)
	middleware.JSONResponse(w, http.StatusOK, sess.View())
}
