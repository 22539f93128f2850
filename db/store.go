// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/hibah-admin/audit"
	"github.com/danielhkuo/hibah-admin/models"
)

// Backend selects the database behind the audit trail.
type Backend string

const (
	SQLiteBackend     Backend = "sqlite"
	PostgreSQLBackend Backend = "postgres"
	MySQLBackend      Backend = "mysql"
	NoneBackend       Backend = "none"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 100

// ParseBackend accepts the configured backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case SQLiteBackend, PostgreSQLBackend, MySQLBackend, NoneBackend:
		return b, nil
	case "postgresql":
		return PostgreSQLBackend, nil
	case "":
		return NoneBackend, nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", s)
	}
}

// Filter narrows List.
type Filter struct {
	Subject string
	Action  string
	Since   time.Time
	Limit   int
}

// Store is the audit trail. The none backend accepts writes and lists nothing.
type Store struct {
	db      *sql.DB
	backend Backend
}

var _ audit.Recorder = &Store{}

// Open connects to the backend and verifies the connection. It does not
// create tables; run Migrate first.
func Open(ctx context.Context, backend Backend, dsn string) (*Store, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch backend {
	case SQLiteBackend:
		if dsn == "" {
			dsn = "hibah-audit.db"
		}
		conn, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w", dsn, err)
		}
		// One writer at a time avoids "database is locked"
		conn.SetMaxOpenConns(1)

	case MySQLBackend:
		dsn, err = mysqlDSN(dsn)
		if err != nil {
			return nil, err
		}
		conn, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}

	case PostgreSQLBackend:
		conn, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
		}

	case NoneBackend:
		return &Store{backend: NoneBackend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Check that it is running and the connection string is correct", backend, err)
	}

	return &Store{db: conn, backend: backend}, nil
}

// mysqlDSN forces parseTime so DATETIME columns scan into time.Time.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL connection string: %w. Expected user:password@tcp(host:port)/dbname", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// Backend reports which backend the store writes to.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the connection. The none backend is always healthy.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

// rebind rewrites ? placeholders as $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.backend != PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record inserts one entry.
func (s *Store) Record(ctx context.Context, e models.AuditEntry) error {
	if s.db == nil {
		return nil
	}
	if e.ID == "" || e.Action == "" {
		return errors.New("audit entry needs an id and an action")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO audit_log (id, action, subject, status_before, status_after, actor, ip_hash, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), e.ID, e.Action, e.Subject, e.StatusBefore, e.StatusAfter, e.Actor, e.IPHash, e.Detail, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.AuditEntry, error) {
	if s.db == nil {
		return []models.AuditEntry{}, nil
	}

	var (
		where []string
		args  []any
	)
	if f.Subject != "" {
		where = append(where, "subject = ?")
		args = append(args, f.Subject)
	}
	if f.Action != "" {
		where = append(where, "action = ?")
		args = append(args, f.Action)
	}
	if !f.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, f.Since.UTC())
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, action, subject, status_before, status_after, actor, ip_hash, detail, created_at FROM audit_log`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Subject, &e.StatusBefore, &e.StatusAfter,
			&e.Actor, &e.IPHash, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	return entries, nil
}
