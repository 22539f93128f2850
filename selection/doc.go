// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package selection implements admin screening (approve/reject) and reviewer
// plotting on top of the external API. Every status change is checked
// against workflow.Transition before the API is called, so an illegal
// request never leaves the gateway.
package selection
