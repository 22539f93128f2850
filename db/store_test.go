// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/hibah-admin/models"
)

func setupSQLite(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "audit.db")

	res, err := Migrate(ctx, SQLiteBackend, dsn, -1)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, uint(1), res.To)

	store, err := Open(ctx, SQLiteBackend, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func entry(id, action, subject string, at time.Time) models.AuditEntry {
	return models.AuditEntry{
		ID: id, Action: action, Subject: subject,
		StatusBefore: "submitted", StatusAfter: "admin_approved",
		Actor: "u-1 (Admin)", IPHash: "abcd", Detail: `{"reason":"ok"}`, CreatedAt: at,
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"sqlite", SQLiteBackend, false},
		{" Postgres ", PostgreSQLBackend, false},
		{"postgresql", PostgreSQLBackend, false},
		{"mysql", MySQLBackend, false},
		{"", NoneBackend, false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestStore_RecordAndList(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, entry("a", "proposal.approve", "proposals/7", base)))
	require.NoError(t, store.Record(ctx, entry("b", "proposal.reject", "proposals/8", base.Add(time.Minute))))
	require.NoError(t, store.Record(ctx, entry("c", "proposal.assign_reviewers", "proposals/7", base.Add(2*time.Minute))))

	all, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.True(t, base.Equal(all[2].CreatedAt), "created_at = %v", all[2].CreatedAt)
	assert.Equal(t, "abcd", all[2].IPHash)
	assert.Equal(t, `{"reason":"ok"}`, all[2].Detail)

	bySubject, err := store.List(ctx, Filter{Subject: "proposals/7"})
	require.NoError(t, err)
	assert.Len(t, bySubject, 2)

	byAction, err := store.List(ctx, Filter{Action: "proposal.reject"})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, "b", byAction[0].ID)

	limited, err := store.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "c", limited[0].ID)
}

func TestStore_RecordRejectsIncompleteEntry(t *testing.T) {
	store := setupSQLite(t)
	err := store.Record(context.Background(), models.AuditEntry{Subject: "proposals/1"})
	assert.Error(t, err)
}

func TestStore_DuplicateID(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Record(ctx, entry("dup", "master.delete", "skema/1", now)))
	assert.Error(t, store.Record(ctx, entry("dup", "master.delete", "skema/1", now)))
}

func TestNoneBackend(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, NoneBackend, "")
	require.NoError(t, err)

	require.NoError(t, store.Record(ctx, entry("x", "profile.save", "profile/pribadi", time.Now())))
	got, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.Close())

	_, err = Migrate(ctx, NoneBackend, "", -1)
	assert.Error(t, err)
}

func TestMigrate_UpDownIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "audit.db")

	res, err := Migrate(ctx, SQLiteBackend, dsn, -1)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	res, err = Migrate(ctx, SQLiteBackend, dsn, -1)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Contains(t, res.String(), "no migration needed")

	res, err = Migrate(ctx, SQLiteBackend, dsn, 0)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, uint(1), res.From)
}

func TestRebind(t *testing.T) {
	pg := &Store{backend: PostgreSQLBackend}
	assert.Equal(t, "a = $1 AND b = $2 LIMIT $3", pg.rebind("a = ? AND b = ? LIMIT ?"))

	lite := &Store{backend: SQLiteBackend}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("root:secret@tcp(localhost:3306)/hibah")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}
