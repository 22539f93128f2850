// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package apiclient is the typed client for the external grant API, which is
the system of record for proposals, reviews, master data and profiles.

# Contracts

Lists come back as {data, current_page, last_page}; single records as
{data: T} or a bare T. Generic helpers cover the plain resources:

	page, err := apiclient.List[models.Skema](ctx, c, "skema", apiclient.ListQuery{Page: 1})
	s, err := apiclient.Create[models.Skema](ctx, c, "skema", payload)

Workflow endpoints have typed methods (ChangeStatus, AssignReviewers,
SubmitReview, ...).

# Errors

Non-2xx answers become *APIError carrying the server's message verbatim and
its field errors. When the server sends no message, FallbackMessage is used.
Transport failures wrap ErrUnavailable.

# Retry and Caching

GET, PUT and DELETE are retried once on transport errors and 502/503/504.
POST is never retried. GET bodies are cached per caller for a short TTL and
every mutation drops the cache of the resources it touches.

The caller's bearer token is read from the auth.Session in the context.
*/
package apiclient
