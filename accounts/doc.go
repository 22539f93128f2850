// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package accounts validates and forwards self-registration, and hands login
// off to the external session provider.
package accounts
