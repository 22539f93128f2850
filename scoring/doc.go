// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scoring implements the reviewer's rubric session.

	sess, err := svc.OpenReview(ctx, proposalID, reviewerID)
	sess.SetScore("metodologi", 85)   // clamped to [0, 100]
	total := sess.Total()             // Σ(score × weight / 100)
	res, err := sess.Submit(ctx, confirmer, "accepted", "Layak didanai")

A submitted review is immutable: the session turns read-only and reopening
the proposal returns the stored result. Sessions hold per-request state and
are not shared.
*/
package scoring
