// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationResult reports what Migrate did.
type MigrationResult struct {
	From    uint
	To      uint
	Changed bool
}

func (r MigrationResult) String() string {
	if !r.Changed {
		return fmt.Sprintf("no migration needed, database is at version %d", r.To)
	}
	return fmt.Sprintf("migrated from version %d to version %d", r.From, r.To)
}

// Migrate moves the audit schema to targetVersion.
//   - targetVersion < 0 migrates to the latest version
//   - targetVersion == 0 rolls every migration back
//   - targetVersion > 0 migrates to exactly that version
func Migrate(ctx context.Context, backend Backend, dsn string, targetVersion int) (MigrationResult, error) {
	if backend == NoneBackend {
		return MigrationResult{}, errors.New("migrations are not supported for the none backend")
	}

	store, err := Open(ctx, backend, dsn)
	if err != nil {
		return MigrationResult{}, err
	}
	// The migrate drivers close the pool through m.Close
	m, err := newMigrator(store)
	if err != nil {
		_ = store.Close()
		return MigrationResult{}, err
	}
	defer func() { _, _ = m.Close() }()

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return MigrationResult{}, fmt.Errorf("database is in a dirty state at version %d. Fix it manually or force the version", current)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}

	res := MigrationResult{From: current, To: current}
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("audit schema unchanged", "backend", backend, "version", current)
		return res, nil
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("failed to migrate %s audit schema: %w", backend, err)
	}

	to, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("failed to read migrated version: %w", err)
	}
	res.To, res.Changed = to, true
	slog.Info("audit schema migrated", "backend", backend, "from", res.From, "to", res.To)
	return res, nil
}

func newMigrator(s *Store) (*migrate.Migrate, error) {
	var (
		driver database.Driver
		err    error
	)
	switch s.backend {
	case SQLiteBackend:
		driver, err = sqlite.WithInstance(s.db, &sqlite.Config{})
	case MySQLBackend:
		driver, err = migratemysql.WithInstance(s.db, &migratemysql.Config{})
	case PostgreSQLBackend:
		driver, err = postgres.WithInstance(s.db, &postgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", s.backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", s.backend, err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+string(s.backend))
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(s.backend), driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
