// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/workflow"
)

// API is the registration endpoint of the external API.
type API interface {
	Register(ctx context.Context, req models.RegisterRequest) error
}

// Service forwards registrations and builds login hand-off URLs.
type Service struct {
	api      API
	loginURL *url.URL
}

// NewService creates an accounts service. loginURL is the session
// provider's login page.
func NewService(api API, loginURL string) (*Service, error) {
	u, err := url.Parse(loginURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid login URL %q", loginURL)
	}
	return &Service{api: api, loginURL: u}, nil
}

// Register validates req and forwards it. Nothing is sent when validation
// fails.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) error {
	req.Nama = strings.TrimSpace(req.Nama)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.NIDN = strings.TrimSpace(req.NIDN)

	if err := workflow.ValidateStruct(req); err != nil {
		return err
	}
	if err := s.api.Register(ctx, req); err != nil {
		return err
	}

	slog.Info("registration forwarded", "email_domain", emailDomain(req.Email))
	return nil
}

// LoginURL returns the provider login URL that sends the user back to
// returnTo. Only relative paths are accepted as return targets.
func (s *Service) LoginURL(returnTo string) string {
	u := *s.loginURL
	q := u.Query()
	if safeReturn(returnTo) {
		q.Set("return_to", returnTo)
	} else {
		q.Set("return_to", "/")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func safeReturn(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "\\")
}

func emailDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return email[i+1:]
	}
	return ""
}
