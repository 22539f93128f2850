// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package site serves the bilingual marketing content (pages and attorney
// profiles) from YAML embedded in the binary. Requests for a language that a
// page lacks fall back to Indonesian.
package site
