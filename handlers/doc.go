// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers of the hibah-admin gateway.

# Handler Types

Each handler is a struct holding the workflow service it drives and, for
mutating screens, the confirmation token issuer:

  - AdminHandler: proposal selection (list, approve, reject, plotting)
  - ReviewHandler: reviewer scoring (open, preview, submit)
  - MasterHandler: CRUD for every master-data entity
  - ProfileHandler: researcher, reviewer and personal profiles
  - AccountHandler: registration and login hand-off
  - SiteHandler: public bilingual content
  - AuditHandler, HealthHandler: operations

	adminHandler := handlers.NewAdminHandler(selection.NewService(api, store), tokens)

# Confirmation

Irreversible actions (approve, review submission, master-data delete,
profile save) answer 202 with a ConfirmationResponse the first time.
Repeating the identical request with the token in X-Confirm-Token executes
it. The token is bound to the action, its subject, its payload and the
caller's session.

	POST /admin/proposals/P1/approve              → 202 {token}
	POST /admin/proposals/P1/approve  (+ token)   → 200 proposal

# Sessions

Handlers read the caller from the request context (auth.SessionFrom); the
router wraps every non-public route in middleware.Sessions.Require. The
caller's bearer token travels on to the external API.

# Uploads

Master-data records with a file accept multipart/form-data: the record as
JSON in a "data" field and the upload in a "file" part.
*/
package handlers
