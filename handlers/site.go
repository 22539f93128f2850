// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/hibah-admin/middleware"
	"github.com/danielhkuo/hibah-admin/site"
)

type SiteHandler struct {
	content *site.Content
}

func NewSiteHandler(content *site.Content) *SiteHandler {
	return &SiteHandler{content: content}
}

// lang prefers ?lang= and falls back to Accept-Language.
func lang(r *http.Request) string {
	if l := r.URL.Query().Get("lang"); l != "" {
		return l
	}
	return r.Header.Get("Accept-Language")
}

// Page handles GET /site/pages/{slug}
func (h *SiteHandler) Page(w http.ResponseWriter, r *http.Request) {
	p, err := h.content.Page(r.PathValue("slug"), lang(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Language", p.Lang)
	middleware.JSONResponse(w, http.StatusOK, p)
}

// Attorneys handles GET /site/attorneys
func (h *SiteHandler) Attorneys(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.content.Attorneys(lang(r)))
}

// Attorney handles GET /site/attorneys/{slug}
func (h *SiteHandler) Attorney(w http.ResponseWriter, r *http.Request) {
	a, err := h.content.Attorney(r.PathValue("slug"), lang(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Language", a.Lang)
	middleware.JSONResponse(w, http.StatusOK, a)
}
