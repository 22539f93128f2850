// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types shared by the
gateway, the external API client, and the workflow packages.

# Domain Types

Records owned by the external grant API:

  - Proposal: identity, PI (ketua), scheme, faculty, status, reviewer slots
  - Reviewer: display name, expertise, remaining quota
  - RubricCriterion: weighted criterion with a 0-100 score
  - ReviewResult: immutable submitted review
  - Skema, BidangIlmu, Fakultas, ProgramStudi, TemplateDokumen, Pengelola, Office:
    master data, validated through `validate` struct tags
  - ResearcherProfile, ReviewerProfile, PersonalInfo: profile records

Records owned locally:

  - AuditEntry: one executed administrative mutation

# Envelopes

Page[T] mirrors the external list envelope:

	{"data": [...], "current_page": 1, "last_page": 4}

ErrorResponse mirrors the external error body and is also what the gateway
writes:

	{"error": "Unprocessable Entity", "message": "...", "errors": {"nama": ["wajib diisi"]}}

# Constants

Proposal status values:

	StatusSubmitted      = "submitted"
	StatusAdminApproved  = "admin_approved"
	StatusAdminRejected  = "admin_rejected"
	StatusUnderReview    = "under_review"
	StatusReviewComplete = "review_complete"

Recommendation values:

	RecommendAccepted      = "accepted"
	RecommendMinorRevision = "minor_revision"
	RecommendMajorRevision = "major_revision"
	RecommendRejected      = "rejected"

Session roles:

	RoleAdmin      = "admin"
	RoleReviewer   = "reviewer"
	RoleResearcher = "researcher"
*/
package models
