// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import "github.com/danielhkuo/hibah-admin/models"

// Action is an admin- or reviewer-triggered event on a proposal.
type Action string

const (
	ActionApproveAdmin    Action = "approve_admin"
	ActionRejectAdmin     Action = "reject_admin"
	ActionAssignReviewers Action = "assign_reviewers"
	ActionCompleteReview  Action = "complete_review"
)

// transitions is the complete edge set. Anything absent is illegal.
var transitions = map[models.ProposalStatus]map[Action]models.ProposalStatus{
	models.StatusSubmitted: {
		ActionApproveAdmin: models.StatusAdminApproved,
		ActionRejectAdmin:  models.StatusAdminRejected,
	},
	models.StatusAdminApproved: {
		ActionAssignReviewers: models.StatusUnderReview,
	},
	models.StatusUnderReview: {
		ActionAssignReviewers: models.StatusUnderReview,
		ActionCompleteReview:  models.StatusReviewComplete,
	},
}

// Transition returns the status reached by applying a to from, or a
// *TransitionError when the edge does not exist.
func Transition(from models.ProposalStatus, a Action) (models.ProposalStatus, error) {
	to, ok := transitions[from][a]
	if !ok {
		return from, &TransitionError{From: from, Action: a}
	}
	return to, nil
}

// CanTransition reports whether a is allowed from status from.
func CanTransition(from models.ProposalStatus, a Action) bool {
	_, ok := transitions[from][a]
	return ok
}

// IsTerminal reports whether no action leaves s.
func IsTerminal(s models.ProposalStatus) bool {
	return s.Valid() && len(transitions[s]) == 0
}

// EligibleForAssignment reports whether reviewers may be (re)assigned in status s.
func EligibleForAssignment(s models.ProposalStatus) bool {
	return CanTransition(s, ActionAssignReviewers)
}
