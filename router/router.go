// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"net/http"

	"github.com/danielhkuo/hibah-admin/accounts"
	"github.com/danielhkuo/hibah-admin/apiclient"
	"github.com/danielhkuo/hibah-admin/cliparse"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/db"
	"github.com/danielhkuo/hibah-admin/handlers"
	"github.com/danielhkuo/hibah-admin/masterdata"
	"github.com/danielhkuo/hibah-admin/middleware"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/profile"
	"github.com/danielhkuo/hibah-admin/scoring"
	"github.com/danielhkuo/hibah-admin/selection"
	"github.com/danielhkuo/hibah-admin/site"
)

// NewRouter wires every gateway route. store doubles as the audit recorder.
func NewRouter(api *apiclient.Client, store *db.Store, content *site.Content, cfg cliparse.Config) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	tokens := confirm.NewTokens(cfg.ConfirmSalt, cfg.ConfirmTTL)
	sessions := middleware.Sessions{Secret: cfg.SessionSecret}

	scoringSvc, err := scoring.NewService(api, cfg.Rubric, store)
	if err != nil {
		return nil, err
	}
	accountSvc, err := accounts.NewService(api, cfg.LoginURL)
	if err != nil {
		return nil, fmt.Errorf("invalid login url: %w", err)
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store)
	siteHandler := handlers.NewSiteHandler(content)
	accountHandler := handlers.NewAccountHandler(accountSvc)
	adminHandler := handlers.NewAdminHandler(selection.NewService(api, store), tokens)
	reviewHandler := handlers.NewReviewHandler(scoringSvc, tokens)
	masterHandler := handlers.NewMasterHandler(masterdata.NewAPIRegistry(api, store), tokens)
	profileHandler := handlers.NewProfileHandler(profile.NewKinds(api, store), tokens)
	auditHandler := handlers.NewAuditHandler(store)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(sessions.Require(h, models.RoleAdmin))
	}
	reviewer := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(sessions.Require(h, models.RoleReviewer))
	}
	member := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(sessions.Require(h))
	}

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Public site content
	mux.HandleFunc("GET /site/pages/{slug}", middleware.WithLogging(siteHandler.Page))
	mux.HandleFunc("GET /site/attorneys", middleware.WithLogging(siteHandler.Attorneys))
	mux.HandleFunc("GET /site/attorneys/{slug}", middleware.WithLogging(siteHandler.Attorney))

	// Accounts
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("GET /auth/login", middleware.WithLogging(accountHandler.Login))

	// Proposal selection (admin)
	mux.HandleFunc("GET /admin/proposals", admin(adminHandler.ListProposals))
	mux.HandleFunc("POST /admin/proposals/{id}/approve", admin(adminHandler.Approve))
	mux.HandleFunc("POST /admin/proposals/{id}/reject", admin(adminHandler.Reject))
	mux.HandleFunc("GET /admin/proposals/{id}/plotting", admin(adminHandler.Plotting))
	mux.HandleFunc("PUT /admin/proposals/{id}/reviewers", admin(adminHandler.AssignReviewers))

	// Scoring (reviewer)
	mux.HandleFunc("GET /reviews/{id}", reviewer(reviewHandler.Get))
	mux.HandleFunc("POST /reviews/{id}/preview", reviewer(reviewHandler.Preview))
	mux.HandleFunc("POST /reviews/{id}", reviewer(reviewHandler.Submit))

	// Master data (admin)
	mux.HandleFunc("GET /admin/master", admin(masterHandler.Entities))
	mux.HandleFunc("GET /admin/master/{entity}", admin(masterHandler.List))
	mux.HandleFunc("POST /admin/master/{entity}", admin(masterHandler.Create))
	mux.HandleFunc("PUT /admin/master/{entity}/{id}", admin(masterHandler.Update))
	mux.HandleFunc("DELETE /admin/master/{entity}/{id}", admin(masterHandler.Delete))

	// Profiles (any signed-in user)
	mux.HandleFunc("GET /me/profile/{kind}", member(profileHandler.Get))
	mux.HandleFunc("PUT /me/profile/{kind}", member(profileHandler.Put))

	// Audit trail (admin)
	mux.HandleFunc("GET /admin/audit", admin(auditHandler.List))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hibah-admin gateway v1"))
	})

	return mux, nil
}

// Wrap applies the middleware shared by every route.
func Wrap(mux http.Handler, cfg cliparse.Config) http.Handler {
	return middleware.CORS(middleware.WithRequestID(middleware.WithClientHash(cfg.IPHashSalt, mux)))
}
