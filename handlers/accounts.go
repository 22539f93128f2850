// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/hibah-admin/accounts"
	"github.com/danielhkuo/hibah-admin/middleware"
	"github.com/danielhkuo/hibah-admin/models"
)

type AccountHandler struct {
	svc *accounts.Service
}

func NewAccountHandler(svc *accounts.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

type registerResponse struct {
	Registered bool   `json:"registered"`
	Message    string `json:"message"`
}

// Register handles POST /auth/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.Register(r.Context(), req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("account registered")
	middleware.JSONResponse(w, http.StatusCreated, registerResponse{
		Registered: true,
		Message:    "Pendaftaran berhasil. Silakan masuk.",
	})
}

// Login handles GET /auth/login?return_to= by redirecting to the login
// provider.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.svc.LoginURL(r.URL.Query().Get("return_to")), http.StatusFound)
}
