// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/hibah-admin/apiclient"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/site"
	"github.com/danielhkuo/hibah-admin/workflow"
)

// WriteError maps err to a status and body. This is the only place errors
// from the workflow, confirmation and API layers become HTTP responses.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if p, ok := confirm.AsPending(err); ok {
		JSONResponse(w, http.StatusAccepted, models.ConfirmationResponse{
			Token:     p.Token,
			Action:    p.Action.Kind,
			Message:   p.Action.Message,
			ExpiresAt: p.ExpiresAt,
		})
		return
	}

	if v, ok := workflow.AsValidation(err); ok {
		JSONResponse(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   http.StatusText(http.StatusUnprocessableEntity),
			Message: "Data yang dikirim tidak valid",
			Errors:  v.Fields,
		})
		return
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		slog.Warn("external api rejected request",
			"path", r.URL.Path,
			"status", apiErr.Status,
			"request_id", RequestIDFrom(r.Context()),
		)
		JSONResponse(w, status, models.ErrorResponse{
			Error:   http.StatusText(status),
			Message: apiErr.Message,
			Errors:  apiErr.Errors,
		})
		return
	}

	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"path", r.URL.Path,
			"error", err,
			"request_id", RequestIDFrom(r.Context()),
		)
	}
	ErrorResponse(w, status, message)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, confirm.ErrInvalidToken):
		return http.StatusBadRequest, "Token konfirmasi tidak valid atau sudah kedaluwarsa"
	case errors.Is(err, confirm.ErrDeclined):
		return http.StatusConflict, "Tindakan dibatalkan"
	case errors.Is(err, workflow.ErrIllegalTransition):
		return http.StatusConflict, "Status proposal tidak mengizinkan tindakan ini"
	case errors.Is(err, workflow.ErrNotReviewable):
		return http.StatusConflict, "Proposal belum dapat dinilai"
	case errors.Is(err, workflow.ErrReadOnly):
		return http.StatusConflict, "Penilaian sudah dikirim dan tidak dapat diubah"
	case errors.Is(err, workflow.ErrNotAssigned):
		return http.StatusForbidden, "Anda bukan reviewer untuk proposal ini"
	case errors.Is(err, workflow.ErrQuotaExhausted):
		return http.StatusUnprocessableEntity, "Kuota reviewer sudah habis"
	case errors.Is(err, site.ErrNotFound):
		return http.StatusNotFound, "Data tidak ditemukan"
	case errors.Is(err, ErrEmptyBody):
		return http.StatusBadRequest, "Body permintaan kosong"
	case errors.Is(err, apiclient.ErrUnavailable):
		return http.StatusBadGateway, apiclient.FallbackMessage
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, apiclient.FallbackMessage
	default:
		return http.StatusInternalServerError, apiclient.FallbackMessage
	}
}
