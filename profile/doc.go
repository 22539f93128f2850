// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package profile edits researcher, reviewer and personal profiles through a
// draft that is a deep copy of the saved record, so cancelling never leaks
// changes. Saving asks for confirmation first.
package profile
