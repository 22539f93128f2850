// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/hibah-admin/audit"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/workflow"
)

// API is the part of the external API the scoring workflow needs.
type API interface {
	GetProposal(ctx context.Context, id string) (models.Proposal, error)
	GetReview(ctx context.Context, proposalID string) (models.ReviewResult, error)
	SubmitReview(ctx context.Context, proposalID string, result models.ReviewResult) (models.ReviewResult, error)
}

// Service opens review sessions against a fixed rubric.
type Service struct {
	api    API
	rubric []models.RubricCriterion
	audit  audit.Recorder
	now    func() time.Time
}

// NewService creates a scoring service. A nil rubric selects the default one;
// a custom rubric must pass workflow.ValidateRubric.
func NewService(api API, rubric []models.RubricCriterion, rec audit.Recorder) (*Service, error) {
	if rubric == nil {
		rubric = workflow.DefaultRubric()
	} else if err := workflow.ValidateRubric(rubric); err != nil {
		return nil, fmt.Errorf("invalid rubric: %w", err)
	}
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Service{api: api, rubric: workflow.CloneRubric(rubric), audit: rec, now: time.Now}, nil
}

// Rubric returns a copy of the rubric in use.
func (s *Service) Rubric() []models.RubricCriterion {
	return workflow.CloneRubric(s.rubric)
}

// Session is one reviewer's scoring of one proposal. It is not safe for
// concurrent use; each request or command owns its own.
type Session struct {
	svc        *Service
	proposal   models.Proposal
	reviewerID string
	criteria   []models.RubricCriterion
	readOnly   bool
	result     *models.ReviewResult
}

// OpenReview starts a session. A completed proposal opens read-only with the
// stored result; a proposal under review opens with every score at zero.
// When reviewerID is set, it must be one of the assigned reviewers.
func (s *Service) OpenReview(ctx context.Context, proposalID, reviewerID string) (*Session, error) {
	p, err := s.api.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load proposal: %w", err)
	}
	if reviewerID != "" && !slices.Contains(p.ReviewerIDs(), reviewerID) {
		return nil, workflow.ErrNotAssigned
	}

	sess := &Session{svc: s, proposal: p, reviewerID: reviewerID}
	switch p.Status {
	case models.StatusReviewComplete:
		res, err := s.api.GetReview(ctx, proposalID)
		if err != nil {
			return nil, fmt.Errorf("failed to load review: %w", err)
		}
		sess.readOnly = true
		sess.result = &res
		sess.criteria = workflow.CloneRubric(res.Criteria)
		if len(sess.criteria) == 0 {
			sess.criteria = workflow.CloneRubric(s.rubric)
		}
	case models.StatusUnderReview:
		sess.criteria = workflow.CloneRubric(s.rubric)
		for i := range sess.criteria {
			sess.criteria[i].Score = workflow.MinScore
		}
	default:
		return nil, fmt.Errorf("%w: status %s", workflow.ErrNotReviewable, p.Status)
	}
	return sess, nil
}

// ReadOnly reports whether the review was already submitted.
func (s *Session) ReadOnly() bool { return s.readOnly }

// Proposal returns the proposal being reviewed.
func (s *Session) Proposal() models.Proposal { return s.proposal }

// Criteria returns a copy of the current scores.
func (s *Session) Criteria() []models.RubricCriterion {
	return workflow.CloneRubric(s.criteria)
}

// SetScore sets one criterion, clamping v into [0, 100].
func (s *Session) SetScore(criterionID string, v float64) error {
	if s.readOnly {
		return workflow.ErrReadOnly
	}
	for i := range s.criteria {
		if s.criteria[i].ID == criterionID {
			s.criteria[i].Score = workflow.ClampScore(v)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", workflow.ErrUnknownCriterion, criterionID)
}

// SetScores applies several scores. Unknown criteria are reported together
// and nothing is changed.
func (s *Session) SetScores(scores map[string]float64) error {
	if s.readOnly {
		return workflow.ErrReadOnly
	}

	known := make(map[string]bool, len(s.criteria))
	for _, c := range s.criteria {
		known[c.ID] = true
	}
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	v := &workflow.ValidationError{}
	for _, id := range ids {
		if !known[id] {
			v.Add("scores."+id, "kriteria tidak dikenal")
		}
	}
	if err := v.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if err := s.SetScore(id, scores[id]); err != nil {
			return err
		}
	}
	return nil
}

// Total returns Σ(score × weight / 100) over the current scores.
func (s *Session) Total() float64 {
	return workflow.ComputeTotal(s.criteria)
}

// Result returns the stored result of a read-only session.
func (s *Session) Result() (models.ReviewResult, bool) {
	if s.result == nil {
		return models.ReviewResult{}, false
	}
	return *s.result, true
}

// View renders the session for display.
func (s *Session) View() models.ReviewView {
	total := workflow.Round2(s.Total())
	v := models.ReviewView{
		ProposalID: s.proposal.ID,
		Status:     s.proposal.Status,
		ReadOnly:   s.readOnly,
		Criteria:   s.Criteria(),
		Total:      total,
		Grade:      workflow.Grade(total),
	}
	if s.result != nil {
		v.Recommendation = s.result.Recommendation
		v.Comments = s.result.Comments
	}
	return v
}

func (s *Session) scoreMap() map[string]float64 {
	m := make(map[string]float64, len(s.criteria))
	for _, c := range s.criteria {
		m[c.ID] = c.Score
	}
	return m
}

// Submit validates the recommendation and comments, asks for confirmation,
// then stores the review. On success the session turns read-only and the
// proposal is review_complete. On failure the scores stay in the session.
func (s *Session) Submit(ctx context.Context, c confirm.Confirmer, recommendation, comments string) (models.ReviewResult, error) {
	if s.readOnly {
		return models.ReviewResult{}, workflow.ErrReadOnly
	}

	v := &workflow.ValidationError{}
	rec, err := workflow.ParseRecommendation(recommendation)
	if err != nil {
		if ve, ok := workflow.AsValidation(err); ok {
			for field, msgs := range ve.Fields {
				for _, m := range msgs {
					v.Add(field, m)
				}
			}
		} else {
			return models.ReviewResult{}, err
		}
	}
	comments = strings.TrimSpace(comments)
	if comments == "" {
		v.Add("comments", "komentar wajib diisi")
	}
	if err := v.Err(); err != nil {
		return models.ReviewResult{}, err
	}

	next, err := workflow.Transition(s.proposal.Status, workflow.ActionCompleteReview)
	if err != nil {
		return models.ReviewResult{}, err
	}

	err = confirm.Require(ctx, c, confirm.Action{
		Kind:    string(workflow.ActionCompleteReview),
		Subject: "proposal/" + s.proposal.ID,
		Message: fmt.Sprintf("Kirim penilaian %q dengan rekomendasi %s? Penilaian tidak dapat diubah setelah dikirim.",
			s.proposal.Title, workflow.RecommendationLabel(rec)),
		Payload: map[string]any{"scores": s.scoreMap(), "recommendation": rec, "comments": comments},
	})
	if err != nil {
		return models.ReviewResult{}, err
	}

	result := models.ReviewResult{
		ProposalID:     s.proposal.ID,
		ReviewerID:     s.reviewerID,
		Criteria:       s.Criteria(),
		Total:          workflow.Round2(s.Total()),
		Recommendation: rec,
		Comments:       comments,
		SubmittedAt:    s.svc.now().UTC(),
	}
	saved, err := s.svc.api.SubmitReview(ctx, s.proposal.ID, result)
	if err != nil {
		return models.ReviewResult{}, fmt.Errorf("failed to submit review: %w", err)
	}
	if len(saved.Criteria) == 0 {
		saved = result
	}

	before := s.proposal.Status
	s.readOnly = true
	s.result = &saved
	s.criteria = workflow.CloneRubric(saved.Criteria)
	s.proposal.Status = next

	slog.Info("review submitted", "proposal_id", s.proposal.ID, "total", saved.Total, "recommendation", saved.Recommendation)
	audit.Log(ctx, s.svc.audit, models.AuditEntry{
		Action:       audit.ActionSubmitReview,
		Subject:      "proposal/" + s.proposal.ID,
		StatusBefore: string(before),
		StatusAfter:  string(next),
	}, map[string]any{"total": saved.Total, "recommendation": saved.Recommendation})
	return saved, nil
}
