// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/masterdata"
	"github.com/danielhkuo/hibah-admin/middleware"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/workflow"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 10 << 20
)

// MasterHandler serves CRUD for every registered master-data entity.
type MasterHandler struct {
	registry *masterdata.Registry
	tokens   *confirm.Tokens
}

func NewMasterHandler(registry *masterdata.Registry, tokens *confirm.Tokens) *MasterHandler {
	return &MasterHandler{registry: registry, tokens: tokens}
}

type entityInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Entities handles GET /admin/master
func (h *MasterHandler) Entities(w http.ResponseWriter, r *http.Request) {
	names := h.registry.Names()
	out := make([]entityInfo, 0, len(names))
	for _, n := range names {
		e, _ := h.registry.Get(n)
		out = append(out, entityInfo{Name: n, Label: e.Label()})
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}

func (h *MasterHandler) entity(w http.ResponseWriter, r *http.Request) (masterdata.Entity, bool) {
	e, ok := h.registry.Get(r.PathValue("entity"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown master data entity")
		return nil, false
	}
	return e, true
}

// List handles GET /admin/master/{entity}?page=&page_size=&search=
func (h *MasterHandler) List(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))

	result, err := e.ListAny(r.Context(), page, size, q.Get("search"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// Create handles POST /admin/master/{entity}
func (h *MasterHandler) Create(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entity(w, r)
	if !ok {
		return
	}

	body, file, err := readRecord(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	created, err := e.CreateJSON(r.Context(), body, file)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("master data created", "entity", e.Name())
	middleware.JSONResponse(w, http.StatusCreated, created)
}

// Update handles PUT /admin/master/{entity}/{id}
func (h *MasterHandler) Update(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entity(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	body, file, err := readRecord(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	updated, err := e.UpdateJSON(r.Context(), id, body, file)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("master data updated", "entity", e.Name(), "id", id)
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /admin/master/{entity}/{id}
func (h *MasterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entity(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	c := h.tokens.ForRequest(r.Header.Get(middleware.HeaderConfirmToken))
	if err := e.Delete(r.Context(), c, id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("master data deleted", "entity", e.Name(), "id", id)
	middleware.JSONResponse(w, http.StatusOK, models.DeleteResponse{Deleted: true})
}

// readRecord returns the JSON record and, for multipart requests, the upload.
// Multipart requests carry the record in a "data" field and the upload in a
// "file" part.
func readRecord(r *http.Request) ([]byte, *models.FileUpload, error) {
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
		if err != nil {
			return nil, nil, err
		}
		if len(body) == 0 {
			return nil, nil, middleware.ErrEmptyBody
		}
		return body, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		return nil, nil, badForm("format formulir tidak valid")
	}
	data := r.FormValue("data")
	if data == "" {
		return nil, nil, badForm("data wajib diisi")
	}

	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return []byte(data), nil, nil
	}
	if err != nil {
		return nil, nil, badForm("berkas tidak dapat dibaca")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return []byte(data), &models.FileUpload{FieldName: "file", FileName: header.Filename, Content: content}, nil
}

func badForm(msg string) error {
	return workflow.NewValidationError("form", msg)
}
