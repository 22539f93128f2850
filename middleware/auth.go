// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/danielhkuo/hibah-admin/auth"
)

// Sessions guards routes with the bearer session issued by the login
// provider.
type Sessions struct {
	Secret string
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Require rejects requests without a valid session, or whose role is not one
// of roles when any are given. The session is attached to the request context.
func (s Sessions) Require(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Silakan masuk terlebih dahulu")
			return
		}

		session, err := auth.ParseSession(token, s.Secret)
		if err != nil {
			slog.Debug("session rejected", "error", err, "path", r.URL.Path)
			ErrorResponse(w, http.StatusUnauthorized, "Sesi tidak valid atau sudah berakhir")
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, session.Role) {
			slog.Warn("role not permitted",
				"subject", session.Subject,
				"role", session.Role,
				"path", r.URL.Path,
			)
			ErrorResponse(w, http.StatusForbidden, "Anda tidak memiliki akses ke halaman ini")
			return
		}

		next(w, r.WithContext(auth.WithSession(r.Context(), session)))
	}
}
