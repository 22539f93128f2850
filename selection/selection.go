// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/hibah-admin/audit"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/workflow"
)

// API is the part of the external API the selection workflow needs.
type API interface {
	ListProposals(ctx context.Context) ([]models.Proposal, error)
	GetProposal(ctx context.Context, id string) (models.Proposal, error)
	ChangeStatus(ctx context.Context, id string, req models.StatusChangeRequest) (models.Proposal, error)
	AssignReviewers(ctx context.Context, id string, req models.AssignReviewersRequest) (models.Proposal, error)
	ListReviewers(ctx context.Context) ([]models.Reviewer, error)
}

// Service runs the admin screening and reviewer plotting steps.
type Service struct {
	api   API
	audit audit.Recorder
}

func NewService(api API, rec audit.Recorder) *Service {
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Service{api: api, audit: rec}
}

// ListByStage returns the proposals shown under a selection tab.
func (s *Service) ListByStage(ctx context.Context, st workflow.Stage, search string) ([]models.Proposal, error) {
	all, err := s.api.ListProposals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return workflow.FilterByStage(all, st, search), nil
}

// ApproveAdmin moves a submitted proposal to admin_approved after
// confirmation. Any other status is rejected before anything is sent.
func (s *Service) ApproveAdmin(ctx context.Context, c confirm.Confirmer, id string) (models.Proposal, error) {
	p, err := s.api.GetProposal(ctx, id)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("failed to load proposal: %w", err)
	}
	next, err := workflow.Transition(p.Status, workflow.ActionApproveAdmin)
	if err != nil {
		return models.Proposal{}, err
	}

	err = confirm.Require(ctx, c, confirm.Action{
		Kind:    string(workflow.ActionApproveAdmin),
		Subject: "proposal/" + id,
		Message: fmt.Sprintf("Loloskan proposal %q ke tahap plotting reviewer?", p.Title),
	})
	if err != nil {
		return models.Proposal{}, err
	}

	updated, err := s.api.ChangeStatus(ctx, id, models.StatusChangeRequest{Status: next})
	if err != nil {
		return models.Proposal{}, fmt.Errorf("failed to approve proposal: %w", err)
	}

	slog.Info("proposal approved", "proposal_id", id, "status", updated.Status)
	audit.Log(ctx, s.audit, models.AuditEntry{
		Action:       audit.ActionApprove,
		Subject:      "proposal/" + id,
		StatusBefore: string(p.Status),
		StatusAfter:  string(updated.Status),
	}, nil)
	return updated, nil
}

// RejectAdmin moves a submitted proposal to admin_rejected. The reason is
// required and forwarded to the API.
func (s *Service) RejectAdmin(ctx context.Context, id, reason string) (models.Proposal, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Proposal{}, workflow.NewValidationError("reason", "alasan penolakan wajib diisi")
	}

	p, err := s.api.GetProposal(ctx, id)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("failed to load proposal: %w", err)
	}
	next, err := workflow.Transition(p.Status, workflow.ActionRejectAdmin)
	if err != nil {
		return models.Proposal{}, err
	}

	updated, err := s.api.ChangeStatus(ctx, id, models.StatusChangeRequest{Status: next, Reason: reason})
	if err != nil {
		return models.Proposal{}, fmt.Errorf("failed to reject proposal: %w", err)
	}

	slog.Info("proposal rejected", "proposal_id", id, "status", updated.Status)
	audit.Log(ctx, s.audit, models.AuditEntry{
		Action:       audit.ActionReject,
		Subject:      "proposal/" + id,
		StatusBefore: string(p.Status),
		StatusAfter:  string(updated.Status),
	}, map[string]string{"reason": reason})
	return updated, nil
}

// load fetches a proposal and the reviewer pool concurrently.
func (s *Service) load(ctx context.Context, id string) (models.Proposal, []models.Reviewer, error) {
	var (
		p         models.Proposal
		reviewers []models.Reviewer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = s.api.GetProposal(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to load proposal: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reviewers, err = s.api.ListReviewers(gctx)
		if err != nil {
			return fmt.Errorf("failed to load reviewers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.Proposal{}, nil, err
	}
	return p, reviewers, nil
}

// OpenPlottingFor returns the current plotting of an eligible proposal along
// with the reviewer candidates.
func (s *Service) OpenPlottingFor(ctx context.Context, id string) (models.PlottingDraft, error) {
	p, reviewers, err := s.load(ctx, id)
	if err != nil {
		return models.PlottingDraft{}, err
	}
	if !workflow.EligibleForAssignment(p.Status) {
		return models.PlottingDraft{}, &workflow.TransitionError{From: p.Status, Action: workflow.ActionAssignReviewers}
	}

	draft := models.PlottingDraft{Proposal: p, Candidates: reviewers}
	if p.Reviewer1ID != nil {
		draft.Reviewer1ID = *p.Reviewer1ID
	}
	if p.Reviewer2ID != nil {
		draft.Reviewer2ID = *p.Reviewer2ID
	}
	return draft, nil
}

// AssignReviewers replaces the reviewer plotting of a proposal. The pair is
// validated locally, then the status edge and quotas are checked, then the
// API is called.
func (s *Service) AssignReviewers(ctx context.Context, id string, reviewer1, reviewer2 *string) (models.Proposal, error) {
	a, err := workflow.NewAssignment(reviewer1, reviewer2)
	if err != nil {
		return models.Proposal{}, err
	}

	p, reviewers, err := s.load(ctx, id)
	if err != nil {
		return models.Proposal{}, err
	}
	if _, err := workflow.Transition(p.Status, workflow.ActionAssignReviewers); err != nil {
		return models.Proposal{}, err
	}
	if err := workflow.CheckQuota(p, a, reviewers); err != nil {
		return models.Proposal{}, err
	}

	updated, err := s.api.AssignReviewers(ctx, id, a.Request())
	if err != nil {
		return models.Proposal{}, fmt.Errorf("failed to assign reviewers: %w", err)
	}

	slog.Info("reviewers assigned", "proposal_id", id, "reviewers", a.IDs())
	audit.Log(ctx, s.audit, models.AuditEntry{
		Action:       audit.ActionAssign,
		Subject:      "proposal/" + id,
		StatusBefore: string(p.Status),
		StatusAfter:  string(updated.Status),
	}, map[string]any{"previous": p.ReviewerIDs(), "reviewers": a.IDs()})
	return updated, nil
}
