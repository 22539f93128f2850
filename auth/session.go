// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session token")

// Session is the verified identity carried by a provider-issued bearer token.
type Session struct {
	Subject    string
	Name       string
	Role       string
	ReviewerID string

	// Token is the raw bearer token, forwarded to the external API.
	Token string
}

type sessionClaims struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	ReviewerID string `json:"reviewer_id,omitempty"`
	jwt.RegisteredClaims
}

// ParseSession verifies an HS256 token issued by the session provider.
// Tokens without an expiry or role are rejected.
func ParseSession(token, secret string) (Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Role == "" {
		return Session{}, fmt.Errorf("%w: missing role claim", ErrInvalidSession)
	}

	return Session{
		Subject:    claims.Subject,
		Name:       claims.Name,
		Role:       claims.Role,
		ReviewerID: claims.ReviewerID,
		Token:      token,
	}, nil
}

// IssueSession signs a session token. The provider normally does this; the
// CLI and tests use it to mint local tokens.
func IssueSession(s Session, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Name:       s.Name,
		Role:       s.Role,
		ReviewerID: s.ReviewerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored by WithSession.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// Actor names the session for audit entries.
func (s Session) Actor() string {
	if s.Name != "" {
		return s.Subject + " (" + s.Name + ")"
	}
	return s.Subject
}
