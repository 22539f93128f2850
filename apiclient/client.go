// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/danielhkuo/hibah-admin/auth"
	"github.com/danielhkuo/hibah-admin/models"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultCacheTTL  = 30 * time.Second
	DefaultRetryWait = 200 * time.Millisecond

	maxErrorBody = 1 << 20
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Timeout   time.Duration
	CacheTTL  time.Duration
	RetryWait time.Duration

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the external grant API. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	cache     *queryCache
	retryWait time.Duration
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme must be http or https", baseURL)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = DefaultRetryWait
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:   u,
		http:      hc,
		cache:     newQueryCache(opts.CacheTTL),
		retryWait: opts.RetryWait,
	}, nil
}

// Invalidate drops every cached query under resource.
func (c *Client) Invalidate(resource string) {
	c.cache.invalidate(resource)
}

// request is one logical API call. body is kept as bytes so a retry can
// replay it.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// send performs r and returns the body of a 2xx response. Idempotent
// methods are retried once on transport errors and gateway statuses.
func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	target := c.endpoint(r.path, r.query)
	token := ""
	if s, ok := auth.SessionFrom(ctx); ok {
		token = s.Token
	}

	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		var body io.Reader
		if r.body != nil {
			body = bytes.NewReader(r.body)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, target, body)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if r.contentType != "" {
			req.Header.Set("Content-Type", r.contentType)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, r.method, r.path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, backoff.Permanent(fmt.Errorf("failed to read response: %w", err))
			}
			return data, nil
		}

		apiErr := decodeError(resp)
		if retryableStatus(resp.StatusCode) {
			return nil, apiErr
		}
		return nil, backoff.Permanent(apiErr)
	}

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if idempotent(r.method) {
		policy = backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryWait), 1)
	}

	data, err := backoff.RetryWithData(op, backoff.WithContext(policy, ctx))
	if err != nil {
		slog.Warn("api request failed", "method", r.method, "path", r.path, "attempts", attempt, "error", err)
		return nil, err
	}
	return data, nil
}

// get serves a GET from the query cache when possible.
func (c *Client) get(ctx context.Context, resource, path string, query url.Values) ([]byte, error) {
	key := cacheKey(ctx, path, query)
	if data, ok := c.cache.get(resource, key); ok {
		return data, nil
	}

	gen := c.cache.generation(resource)
	data, err := c.send(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return nil, err
	}
	c.cache.put(resource, key, gen, data)
	return data, nil
}

// mutate sends a JSON body and invalidates the listed resources on success.
func (c *Client) mutate(ctx context.Context, method, path string, payload any, invalidates ...string) ([]byte, error) {
	r := request{method: method, path: path}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		r.body = b
		r.contentType = "application/json"
	}
	return c.mutateRaw(ctx, r, invalidates...)
}

func (c *Client) mutateRaw(ctx context.Context, r request, invalidates ...string) ([]byte, error) {
	data, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	for _, res := range invalidates {
		c.cache.invalidate(res)
	}
	return data, nil
}

// decodeRecord accepts either {"data": T} or a bare T.
func decodeRecord[T any](data []byte) (T, error) {
	var out T
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
		data = envelope.Data
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

// decodeList accepts the paginated envelope or a bare array.
func decodeList[T any](data []byte) (models.Page[T], error) {
	var page models.Page[T]
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &page.Data); err != nil {
			return page, fmt.Errorf("failed to decode list: %w", err)
		}
		page.CurrentPage, page.LastPage, page.Total = 1, 1, len(page.Data)
		return page, nil
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return page, fmt.Errorf("failed to decode list: %w", err)
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	if page.CurrentPage == 0 {
		page.CurrentPage = 1
	}
	if page.LastPage < page.CurrentPage {
		page.LastPage = page.CurrentPage
	}
	return page, nil
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
