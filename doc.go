// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for hibahadmin, the back-office gateway
of a university research grant (hibah) system.

hibahadmin sits between the back-office UI and the grant API. It enforces the
proposal workflow (screening, reviewer plotting, rubric scoring), asks for
confirmation before irreversible actions and keeps an audit trail.

# Starting the Server

The server requires environment variables, a .hibahadmin.yaml or flags:

	HIBAH_API_BASE_URL=https://hibah.example.ac.id/api \
	HIBAH_SESSION_SECRET=... HIBAH_CONFIRM_SALT=... hibahadmin serve

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - HIBAH_API_BASE_URL (--api-base-url): Base URL of the grant API
  - HIBAH_SESSION_SECRET: HS256 secret of the session provider's tokens
  - HIBAH_CONFIRM_SALT: Secret for confirmation token HMAC

Optional settings:

  - HIBAH_PORT (-p): Server port (default: 3318)
  - HIBAH_AUDIT_BACKEND, HIBAH_AUDIT_DSN: sqlite (default), postgres, mysql or none
  - HIBAH_LOG_LEVEL, HIBAH_LOG_FORMAT: slog level and text or json output

# Architecture

  - cmd: Cobra commands (serve, proposals, review, migrate, audit, token)
  - router, handlers, middleware: the HTTP gateway
  - selection, scoring, masterdata, profile, accounts: workflows
  - workflow: status machine, rubric maths and validation
  - apiclient: typed client for the grant API with retry and query cache
  - confirm: terminal prompts and signed confirmation tokens
  - db, export: audit trail storage, migrations and exports
  - site: bilingual public content
  - cliparse: configuration

See package documentation for each component.
*/
package main
