// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs completion with method, path, status, request id and duration_ms.
WithRequestID assigns the id (or reuses X-Request-ID) and echoes it back.

# Sessions

Guard routes with the bearer JWT issued by the login provider:

	sessions := middleware.Sessions{Secret: cfg.SessionSecret}
	mux.HandleFunc("GET /admin/proposals", sessions.Require(h.List, models.RoleAdmin))

Missing or invalid sessions get 401, a role outside the list gets 403.

# Errors

WriteError is the single mapping from domain errors to responses:

  - workflow.ValidationError: 422 with field errors
  - illegal transition, not reviewable, read only: 409
  - not assigned: 403
  - quota exhausted: 422
  - apiclient.APIError: the API's status and verbatim message
  - confirm.PendingError: 202 with a confirmation token
  - confirm.ErrInvalidToken: 400
  - apiclient.ErrUnavailable: 502

# Client IP Extraction

GetClientIP handles X-Forwarded-For and X-Real-IP. WithClientHash stores a
salted hash of it for audit entries.
*/
package middleware
