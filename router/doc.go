// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes of the hibah-admin gateway.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints, and Wrap
adds CORS, request ids and client hashing:

	mux, err := router.NewRouter(api, store, content, cfg)
	handler := router.Wrap(mux, cfg)

# Endpoints

Public:

	GET  /health
	GET  /site/pages/{slug}?lang=
	GET  /site/attorneys
	GET  /site/attorneys/{slug}?lang=
	POST /auth/register
	GET  /auth/login?return_to=

Proposal selection (admin):

	GET  /admin/proposals?stage=screening|plotting&search=
	POST /admin/proposals/{id}/approve      (confirm)
	POST /admin/proposals/{id}/reject
	GET  /admin/proposals/{id}/plotting
	PUT  /admin/proposals/{id}/reviewers

Scoring (reviewer):

	GET  /reviews/{id}
	POST /reviews/{id}/preview
	POST /reviews/{id}                      (confirm)

Master data (admin):

	GET    /admin/master
	GET    /admin/master/{entity}?page=&page_size=&search=
	POST   /admin/master/{entity}
	PUT    /admin/master/{entity}/{id}
	DELETE /admin/master/{entity}/{id}      (confirm)

Profiles (any session):

	GET /me/profile/{kind}
	PUT /me/profile/{kind}                  (confirm)

Audit (admin):

	GET /admin/audit?limit=&subject=&action=&since=

# Confirmation

Routes marked (confirm) answer 202 with a token the first time. Repeating
the same request with the token in X-Confirm-Token executes it.
*/
package router
