// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package workflow holds the pure rules of the proposal selection and review
process. Nothing here performs I/O.

# Status Machine

Every status change goes through Transition:

	next, err := workflow.Transition(p.Status, workflow.ActionApproveAdmin)
	if errors.Is(err, workflow.ErrIllegalTransition) {
		// leave the proposal untouched
	}

Edges:

	submitted      --approve_admin-->    admin_approved
	submitted      --reject_admin-->     admin_rejected   (terminal)
	admin_approved --assign_reviewers--> under_review
	under_review   --assign_reviewers--> under_review
	under_review   --complete_review-->  review_complete  (terminal)

# Stages

The selection screen has two tabs. FilterByStage applies the tab and a
case-insensitive search over title, PI and scheme.

# Rubric

Scores are clamped to [0, 100]. The total is Σ(score × weight / 100), and
rubric weights must sum to 100.

# Errors

ValidationError carries field messages in the same shape as the external
API's error body. Sentinels (ErrIllegalTransition, ErrNotReviewable,
ErrReadOnly, ErrNotAssigned, ErrQuotaExhausted) are matched with errors.Is.
*/
package workflow
