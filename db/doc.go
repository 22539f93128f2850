// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores the local audit trail of administrative mutations.

# Backends

Open connects to SQLite (modernc, pure Go), PostgreSQL (lib/pq) or MySQL:

	store, err := db.Open(ctx, db.SQLiteBackend, "hibah-audit.db")

The none backend is a no-op store: Record succeeds and List is empty.

# Migrations

Schemas are versioned per backend under migrations/ and embedded in the
binary. Run them before opening a store for writes:

	if _, err := db.Migrate(ctx, db.SQLiteBackend, dsn, -1); err != nil {
		log.Fatal(err)
	}

A negative target migrates to the latest version, zero rolls everything back.

# Tables

  - audit_log: one row per approve, reject, assign, review submit, master
    data change and profile save

Indexes on audit_log.created_at and audit_log.subject.
*/
package db
