// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/hibah-admin/audit"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/models"
)

var (
	ErrNotLoaded  = errors.New("profile not loaded")
	ErrNotEditing = errors.New("profile is not being edited")
)

// Cloner is a value that can deep-copy itself.
type Cloner[T any] interface {
	Clone() T
}

// Store loads and saves one profile.
type Store[T any] interface {
	Get(ctx context.Context) (T, error)
	Put(ctx context.Context, v T) (T, error)
}

// Editor holds a saved profile and, while editing, a separate draft.
// Edits never touch the saved copy until Save succeeds.
type Editor[T Cloner[T]] struct {
	kind  string
	store Store[T]
	audit audit.Recorder

	saved  T
	draft  *T
	loaded bool
}

func NewEditor[T Cloner[T]](kind string, store Store[T], rec audit.Recorder) *Editor[T] {
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Editor[T]{kind: kind, store: store, audit: rec}
}

// Load fetches the saved profile and drops any draft.
func (e *Editor[T]) Load(ctx context.Context) (T, error) {
	v, err := e.store.Get(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to load %s profile: %w", e.kind, err)
	}
	e.saved = v
	e.draft = nil
	e.loaded = true
	return v.Clone(), nil
}

// Saved returns a copy of the saved profile.
func (e *Editor[T]) Saved() T { return e.saved.Clone() }

// Editing reports whether a draft is open.
func (e *Editor[T]) Editing() bool { return e.draft != nil }

// Edit opens a draft as a deep copy of the saved profile.
func (e *Editor[T]) Edit() (T, error) {
	if !e.loaded {
		var zero T
		return zero, ErrNotLoaded
	}
	d := e.saved.Clone()
	e.draft = &d
	return d.Clone(), nil
}

// Cancel discards the draft.
func (e *Editor[T]) Cancel() { e.draft = nil }

// Draft returns a copy of the draft.
func (e *Editor[T]) Draft() (T, bool) {
	if e.draft == nil {
		var zero T
		return zero, false
	}
	return (*e.draft).Clone(), true
}

// Update applies fn to the draft.
func (e *Editor[T]) Update(fn func(*T) error) error {
	if e.draft == nil {
		return ErrNotEditing
	}
	next := (*e.draft).Clone()
	if err := fn(&next); err != nil {
		return err
	}
	e.draft = &next
	return nil
}

// Save confirms, then stores the draft. The saved profile becomes what the
// API returns; the last save wins.
func (e *Editor[T]) Save(ctx context.Context, c confirm.Confirmer) (T, error) {
	var zero T
	if e.draft == nil {
		return zero, ErrNotEditing
	}

	draft := (*e.draft).Clone()
	err := confirm.Require(ctx, c, confirm.Action{
		Kind:    "save_profile",
		Subject: "profile/" + e.kind,
		Message: "Simpan perubahan profil?",
		Payload: draft,
	})
	if err != nil {
		return zero, err
	}

	stored, err := e.store.Put(ctx, draft)
	if err != nil {
		return zero, fmt.Errorf("failed to save %s profile: %w", e.kind, err)
	}
	e.saved = stored
	e.draft = nil

	slog.Info("profile saved", "kind", e.kind)
	audit.Log(ctx, e.audit, models.AuditEntry{Action: audit.ActionSaveProfile, Subject: "profile/" + e.kind}, nil)
	return stored.Clone(), nil
}
