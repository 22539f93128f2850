// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"strings"

	"github.com/danielhkuo/hibah-admin/models"
)

// Stage is the coarse tab selector of the admin selection screen.
type Stage string

const (
	StageScreening Stage = "screening"
	StagePlotting  Stage = "plotting"
)

var stageStatuses = map[Stage][]models.ProposalStatus{
	StageScreening: {models.StatusSubmitted, models.StatusAdminRejected},
	StagePlotting:  {models.StatusAdminApproved, models.StatusUnderReview},
}

// ParseStage parses a stage name. An empty name selects screening.
func ParseStage(s string) (Stage, error) {
	switch Stage(strings.ToLower(strings.TrimSpace(s))) {
	case "", StageScreening:
		return StageScreening, nil
	case StagePlotting:
		return StagePlotting, nil
	}
	return "", NewValidationError("stage", "tahap harus screening atau plotting")
}

// Statuses returns the statuses shown under st.
func (st Stage) Statuses() []models.ProposalStatus {
	return append([]models.ProposalStatus(nil), stageStatuses[st]...)
}

// Includes reports whether a proposal in status s belongs to st.
func (st Stage) Includes(s models.ProposalStatus) bool {
	for _, candidate := range stageStatuses[st] {
		if candidate == s {
			return true
		}
	}
	return false
}

// FilterByStage keeps proposals whose status belongs to st and whose title,
// PI name or scheme contains search, ignoring case. Order is preserved.
func FilterByStage(proposals []models.Proposal, st Stage, search string) []models.Proposal {
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]models.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if !st.Includes(p.Status) {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p models.Proposal, needle string) bool {
	for _, field := range []string{p.Title, p.Ketua, p.Skema} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
