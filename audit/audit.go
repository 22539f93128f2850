// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/hibah-admin/auth"
	"github.com/danielhkuo/hibah-admin/models"
)

// Action names stored in the trail
const (
	ActionApprove      = "proposal.approve"
	ActionReject       = "proposal.reject"
	ActionAssign       = "proposal.assign_reviewers"
	ActionSubmitReview = "review.submit"
	ActionCreate       = "master.create"
	ActionUpdate       = "master.update"
	ActionDelete       = "master.delete"
	ActionSaveProfile  = "profile.save"
)

// Recorder persists audit entries.
type Recorder interface {
	Record(ctx context.Context, e models.AuditEntry) error
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, models.AuditEntry) error { return nil }

// Memory keeps entries in memory, newest last.
type Memory struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (m *Memory) Record(_ context.Context, e models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// Entries returns a copy of everything recorded.
func (m *Memory) Entries() []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AuditEntry(nil), m.entries...)
}

type ipHashKey struct{}

// WithIPHash attaches the hashed client address to ctx.
func WithIPHash(ctx context.Context, hash string) context.Context {
	return context.WithValue(ctx, ipHashKey{}, hash)
}

// Log fills in id, actor, client hash and time, then records e. The mutation
// it describes has already happened, so failures are logged, not returned.
func Log(ctx context.Context, r Recorder, e models.AuditEntry, detail any) {
	if r == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Actor == "" {
		if s, ok := auth.SessionFrom(ctx); ok {
			e.Actor = s.Actor()
		} else {
			e.Actor = "cli"
		}
	}
	if h, ok := ctx.Value(ipHashKey{}).(string); ok && e.IPHash == "" {
		e.IPHash = h
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if detail != nil && e.Detail == "" {
		if b, err := json.Marshal(detail); err == nil {
			e.Detail = string(b)
		}
	}

	// Detach from request cancellation; the entry should land even if the
	// client has gone away.
	if err := r.Record(context.WithoutCancel(ctx), e); err != nil {
		slog.Error("failed to record audit entry", "action", e.Action, "subject", e.Subject, "error", err)
	}
}
