// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package confirm separates "may this run?" from running it.

Workflows call Require before any side-effecting API call:

	if err := confirm.Require(ctx, c, action); err != nil {
		return err // ErrDeclined, *PendingError or ErrInvalidToken
	}
	// ... call the API

On the CLI, Prompt asks y/N on the terminal. Over HTTP, Tokens runs a
two-step protocol: the first request gets a *PendingError with a signed
token (answered as 202 Accepted), and the client repeats the request with
the token in X-Confirm-Token. Tokens are bound to the action kind, subject
and a digest of the payload, and expire after a few minutes.
*/
package confirm
