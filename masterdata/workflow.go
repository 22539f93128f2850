// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package masterdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/hibah-admin/apiclient"
	"github.com/danielhkuo/hibah-admin/audit"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/workflow"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Descriptor names an entity and tells the workflow how to address it.
type Descriptor[T any] struct {
	// Name is the gateway path segment, e.g. "skema".
	Name string
	// Resource is the external API resource; defaults to Name.
	Resource string
	Label    string
	ID       func(T) string
	// File returns the upload attached to a record, or nil for JSON-only
	// entities.
	File func(T) *models.FileUpload
}

// Store is the persistence behind a workflow.
type Store[T any] interface {
	List(ctx context.Context, q apiclient.ListQuery) (models.Page[T], error)
	Create(ctx context.Context, v T, file *models.FileUpload) (T, error)
	Update(ctx context.Context, id string, v T, file *models.FileUpload) (T, error)
	Delete(ctx context.Context, id string) error
}

// Workflow is the list/create/update/delete flow shared by every master-data
// screen.
type Workflow[T any] struct {
	desc  Descriptor[T]
	store Store[T]
	audit audit.Recorder
}

func New[T any](d Descriptor[T], store Store[T], rec audit.Recorder) *Workflow[T] {
	if d.Resource == "" {
		d.Resource = d.Name
	}
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Workflow[T]{desc: d, store: store, audit: rec}
}

func (w *Workflow[T]) Name() string  { return w.desc.Name }
func (w *Workflow[T]) Label() string { return w.desc.Label }

// List returns one page. Page and size are normalised to sane bounds.
func (w *Workflow[T]) List(ctx context.Context, page, pageSize int, search string) (models.Page[T], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return w.store.List(ctx, apiclient.ListQuery{Page: page, PageSize: pageSize, Search: search})
}

func (w *Workflow[T]) file(v T) *models.FileUpload {
	if w.desc.File == nil {
		return nil
	}
	return w.desc.File(v)
}

// Create validates v and creates it.
func (w *Workflow[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	if err := workflow.ValidateStruct(v); err != nil {
		return zero, err
	}

	created, err := w.store.Create(ctx, v, w.file(v))
	if err != nil {
		return zero, err
	}

	id := w.desc.ID(created)
	slog.Info("master data created", "entity", w.desc.Name, "id", id)
	audit.Log(ctx, w.audit, models.AuditEntry{Action: audit.ActionCreate, Subject: w.desc.Name + "/" + id}, created)
	return created, nil
}

// Update validates v and replaces record id with it.
func (w *Workflow[T]) Update(ctx context.Context, id string, v T) (T, error) {
	var zero T
	if err := workflow.ValidateStruct(v); err != nil {
		return zero, err
	}

	updated, err := w.store.Update(ctx, id, v, w.file(v))
	if err != nil {
		return zero, err
	}

	slog.Info("master data updated", "entity", w.desc.Name, "id", id)
	audit.Log(ctx, w.audit, models.AuditEntry{Action: audit.ActionUpdate, Subject: w.desc.Name + "/" + id}, updated)
	return updated, nil
}

// Delete removes record id after a destructive confirmation.
func (w *Workflow[T]) Delete(ctx context.Context, c confirm.Confirmer, id string) error {
	err := confirm.Require(ctx, c, confirm.Action{
		Kind:        "delete_" + w.desc.Name,
		Subject:     w.desc.Name + "/" + id,
		Message:     fmt.Sprintf("Hapus data %s #%s? Tindakan ini tidak dapat dibatalkan.", w.desc.Label, id),
		Destructive: true,
	})
	if err != nil {
		return err
	}

	if err := w.store.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("master data deleted", "entity", w.desc.Name, "id", id)
	audit.Log(ctx, w.audit, models.AuditEntry{Action: audit.ActionDelete, Subject: w.desc.Name + "/" + id}, nil)
	return nil
}

// Entity is a Workflow with its record type erased, for routing by name.
type Entity interface {
	Name() string
	Label() string
	ListAny(ctx context.Context, page, pageSize int, search string) (any, error)
	CreateJSON(ctx context.Context, body []byte, file *models.FileUpload) (any, error)
	UpdateJSON(ctx context.Context, id string, body []byte, file *models.FileUpload) (any, error)
	Delete(ctx context.Context, c confirm.Confirmer, id string) error
}

var _ Entity = (*Workflow[models.Skema])(nil)

func (w *Workflow[T]) ListAny(ctx context.Context, page, pageSize int, search string) (any, error) {
	return w.List(ctx, page, pageSize, search)
}

func (w *Workflow[T]) CreateJSON(ctx context.Context, body []byte, file *models.FileUpload) (any, error) {
	v, err := w.decode(body, file)
	if err != nil {
		return nil, err
	}
	return w.Create(ctx, v)
}

func (w *Workflow[T]) UpdateJSON(ctx context.Context, id string, body []byte, file *models.FileUpload) (any, error) {
	v, err := w.decode(body, file)
	if err != nil {
		return nil, err
	}
	return w.Update(ctx, id, v)
}

// attacher is implemented by records that carry an upload.
type attacher interface {
	Attach(f *models.FileUpload)
}

func (w *Workflow[T]) decode(body []byte, file *models.FileUpload) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, workflow.NewValidationError("body", "format data tidak valid")
	}
	if file != nil {
		if a, ok := any(&v).(attacher); ok {
			a.Attach(file)
		}
	}
	return v, nil
}
