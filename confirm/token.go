// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package confirm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/hibah-admin/auth"
)

// DefaultTokenTTL bounds how long a confirmation token stays valid.
const DefaultTokenTTL = 5 * time.Minute

// Tokens issues and checks signed confirmation tokens. Tokens are
// "<expiry>.<nonce>.<signature>" and bind kind, subject, actor and payload
// digest. A token may be presented again until it expires.
type Tokens struct {
	salt string
	ttl  time.Duration
	now  func() time.Time
}

// NewTokens creates a token issuer. A non-positive ttl selects DefaultTokenTTL.
func NewTokens(salt string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{salt: salt, ttl: ttl, now: time.Now}
}

func digest(payload any) (string, error) {
	if payload == nil {
		return "", nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to digest payload: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Issue creates a token for a.
func (t *Tokens) Issue(a Action) (string, time.Time, error) {
	d, err := digest(a.Payload)
	if err != nil {
		return "", time.Time{}, err
	}
	nonce, err := auth.GenerateID(8)
	if err != nil {
		return "", time.Time{}, err
	}

	expires := t.now().Add(t.ttl).Truncate(time.Second)
	exp := strconv.FormatInt(expires.Unix(), 10)
	sig := auth.Sign(t.salt, a.Kind, a.Subject, a.Actor, d, exp, nonce)
	return exp + "." + nonce + "." + sig, expires, nil
}

// Check verifies token was issued for a and has not expired.
func (t *Tokens) Check(token string, a Action) error {
	parts := strings.SplitN(token, ".", 3)
	if len(parts) != 3 {
		return ErrInvalidToken
	}
	exp, nonce, sig := parts[0], parts[1], parts[2]

	unix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return ErrInvalidToken
	}
	if t.now().After(time.Unix(unix, 0)) {
		return ErrInvalidToken
	}

	d, err := digest(a.Payload)
	if err != nil {
		return err
	}
	if err := auth.Verify(t.salt, sig, a.Kind, a.Subject, a.Actor, d, exp, nonce); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// ForRequest returns a Confirmer for one HTTP request. With no presented
// token it answers with a *PendingError carrying a fresh token.
func (t *Tokens) ForRequest(presented string) Confirmer {
	return &tokenConfirmer{tokens: t, presented: strings.TrimSpace(presented)}
}

type tokenConfirmer struct {
	tokens    *Tokens
	presented string
}

func (c *tokenConfirmer) Confirm(ctx context.Context, a Action) (bool, error) {
	if s, ok := auth.SessionFrom(ctx); ok && a.Actor == "" {
		a.Actor = s.Subject
	}
	if c.presented == "" {
		token, expires, err := c.tokens.Issue(a)
		if err != nil {
			return false, err
		}
		return false, &PendingError{Token: token, Action: a, ExpiresAt: expires}
	}
	if err := c.tokens.Check(c.presented, a); err != nil {
		return false, err
	}
	return true, nil
}
