// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/danielhkuo/hibah-admin/models"
)

// Resource names on the external API
const (
	ResourceProposals = "proposals"
	ResourceReviewers = "reviewers"
	ResourceProfile   = "profile"
	ResourceRegister  = "register"
)

const (
	listPageSize = 100
	maxListPages = 50
)

// all walks every page of resource.
func all[T any](ctx context.Context, c *Client, resource string) ([]T, error) {
	var out []T
	for page := 1; page <= maxListPages; page++ {
		p, err := List[T](ctx, c, resource, ListQuery{Page: page, PageSize: listPageSize})
		if err != nil {
			return nil, err
		}
		out = append(out, p.Data...)
		if p.CurrentPage >= p.LastPage {
			break
		}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// ListProposals returns every proposal visible to the caller.
func (c *Client) ListProposals(ctx context.Context) ([]models.Proposal, error) {
	return all[models.Proposal](ctx, c, ResourceProposals)
}

// GetProposal fetches one proposal.
func (c *Client) GetProposal(ctx context.Context, id string) (models.Proposal, error) {
	return Get[models.Proposal](ctx, c, ResourceProposals, id)
}

// ChangeStatus asks the API to move a proposal to req.Status and returns the
// proposal as the API now stores it.
func (c *Client) ChangeStatus(ctx context.Context, id string, req models.StatusChangeRequest) (models.Proposal, error) {
	data, err := c.mutate(ctx, http.MethodPost, proposalPath(id, "status"), req, ResourceProposals)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("change status of proposal %s: %w", id, err)
	}
	return decodeRecord[models.Proposal](data)
}

// AssignReviewers replaces the reviewer plotting of a proposal.
func (c *Client) AssignReviewers(ctx context.Context, id string, req models.AssignReviewersRequest) (models.Proposal, error) {
	data, err := c.mutate(ctx, http.MethodPut, proposalPath(id, "reviewers"), req, ResourceProposals, ResourceReviewers)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("assign reviewers to proposal %s: %w", id, err)
	}
	return decodeRecord[models.Proposal](data)
}

// ListReviewers returns the reviewer pool with remaining quotas.
func (c *Client) ListReviewers(ctx context.Context) ([]models.Reviewer, error) {
	return all[models.Reviewer](ctx, c, ResourceReviewers)
}

// GetReview fetches the stored review of a proposal.
func (c *Client) GetReview(ctx context.Context, proposalID string) (models.ReviewResult, error) {
	data, err := c.get(ctx, ResourceProposals, proposalPath(proposalID, "review"), nil)
	if err != nil {
		return models.ReviewResult{}, fmt.Errorf("get review of proposal %s: %w", proposalID, err)
	}
	return decodeRecord[models.ReviewResult](data)
}

// SubmitReview stores a review. The API marks the proposal review_complete.
func (c *Client) SubmitReview(ctx context.Context, proposalID string, result models.ReviewResult) (models.ReviewResult, error) {
	data, err := c.mutate(ctx, http.MethodPost, proposalPath(proposalID, "review"), result, ResourceProposals)
	if err != nil {
		return models.ReviewResult{}, fmt.Errorf("submit review of proposal %s: %w", proposalID, err)
	}
	return decodeRecord[models.ReviewResult](data)
}

// Register forwards a self-registration.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	if _, err := c.mutate(ctx, http.MethodPost, ResourceRegister, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// GetProfile fetches the caller's profile of the given kind.
func GetProfile[T any](ctx context.Context, c *Client, kind string) (T, error) {
	data, err := c.get(ctx, ResourceProfile, ResourceProfile+"/"+url.PathEscape(kind), nil)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("get %s profile: %w", kind, err)
	}
	return decodeRecord[T](data)
}

// PutProfile replaces the caller's profile and returns the stored copy.
func PutProfile[T any](ctx context.Context, c *Client, kind string, p T) (T, error) {
	data, err := c.mutate(ctx, http.MethodPut, ResourceProfile+"/"+url.PathEscape(kind), p, ResourceProfile)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("save %s profile: %w", kind, err)
	}
	return decodeRecord[T](data)
}

func proposalPath(id, action string) string {
	return ResourceProposals + "/" + url.PathEscape(id) + "/" + action
}
