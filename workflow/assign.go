// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/hibah-admin/models"
)

// Assignment is a validated reviewer plotting. Empty string means the slot is unset.
type Assignment struct {
	Reviewer1ID string
	Reviewer2ID string
}

// NewAssignment trims both slots and enforces: at least one reviewer, and
// two distinct reviewers when both slots are set.
func NewAssignment(reviewer1, reviewer2 *string) (Assignment, error) {
	a := Assignment{Reviewer1ID: deref(reviewer1), Reviewer2ID: deref(reviewer2)}

	if a.Reviewer1ID == "" && a.Reviewer2ID == "" {
		return Assignment{}, NewValidationError("reviewer1_id", "pilih minimal satu reviewer")
	}
	if a.Reviewer1ID != "" && a.Reviewer1ID == a.Reviewer2ID {
		return Assignment{}, NewValidationError("reviewer2_id", "reviewer 2 harus berbeda dari reviewer 1")
	}
	return a, nil
}

// IDs returns the set slots in order.
func (a Assignment) IDs() []string {
	ids := make([]string, 0, 2)
	if a.Reviewer1ID != "" {
		ids = append(ids, a.Reviewer1ID)
	}
	if a.Reviewer2ID != "" {
		ids = append(ids, a.Reviewer2ID)
	}
	return ids
}

// Request converts a into the API payload. Unset slots are sent as null.
func (a Assignment) Request() models.AssignReviewersRequest {
	var req models.AssignReviewersRequest
	if a.Reviewer1ID != "" {
		id := a.Reviewer1ID
		req.Reviewer1ID = &id
	}
	if a.Reviewer2ID != "" {
		id := a.Reviewer2ID
		req.Reviewer2ID = &id
	}
	return req
}

// CheckQuota verifies every reviewer newly added by a exists in pool and still
// has quota. Reviewers already on the proposal are not charged again.
func CheckQuota(current models.Proposal, a Assignment, pool []models.Reviewer) error {
	byID := make(map[string]models.Reviewer, len(pool))
	for _, r := range pool {
		byID[r.ID] = r
	}
	already := make(map[string]bool, 2)
	for _, id := range current.ReviewerIDs() {
		already[id] = true
	}

	for i, id := range []string{a.Reviewer1ID, a.Reviewer2ID} {
		if id == "" || already[id] {
			continue
		}
		r, ok := byID[id]
		if !ok {
			return NewValidationError(fmt.Sprintf("reviewer%d_id", i+1), "reviewer tidak ditemukan")
		}
		if r.Quota <= 0 {
			return fmt.Errorf("%w: %s", ErrQuotaExhausted, r.Name)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
