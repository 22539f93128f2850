// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/middleware"
	"github.com/danielhkuo/hibah-admin/profile"
)

type ProfileHandler struct {
	kinds  map[string]profile.Kind
	tokens *confirm.Tokens
}

func NewProfileHandler(kinds map[string]profile.Kind, tokens *confirm.Tokens) *ProfileHandler {
	return &ProfileHandler{kinds: kinds, tokens: tokens}
}

func (h *ProfileHandler) kind(w http.ResponseWriter, r *http.Request) (profile.Kind, bool) {
	k, ok := h.kinds[r.PathValue("kind")]
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown profile")
		return nil, false
	}
	return k, true
}

// Get handles GET /me/profile/{kind}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}

	p, err := k.Get(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// Put handles PUT /me/profile/{kind}
func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if len(body) == 0 {
		middleware.WriteError(w, r, middleware.ErrEmptyBody)
		return
	}

	c := h.tokens.ForRequest(r.Header.Get(middleware.HeaderConfirmToken))
	saved, err := k.Replace(r.Context(), c, body)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("profile saved", "kind", k.Name())
	middleware.JSONResponse(w, http.StatusOK, saved)
}
