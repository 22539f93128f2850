// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package confirm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/hibah-admin/auth"
)

func approveAction(id string) Action {
	return Action{Kind: "approve_admin", Subject: "proposal/" + id, Message: "Loloskan proposal?"}
}

func TestRequire(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, Require(ctx, Always, approveAction("p1")))
	assert.ErrorIs(t, Require(ctx, Never, approveAction("p1")), ErrDeclined)

	boom := errors.New("boom")
	failing := Func(func(context.Context, Action) (bool, error) { return false, boom })
	assert.ErrorIs(t, Require(ctx, failing, approveAction("p1")), boom)
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("confirm-salt", time.Minute)
	a := Action{Kind: "delete_master", Subject: "skema/3", Payload: map[string]any{"id": 3}}

	token, expires, err := tokens.Issue(a)
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))
	assert.NoError(t, tokens.Check(token, a))
}

func TestTokens_Check(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tokens := NewTokens("confirm-salt", time.Minute)
	tokens.now = func() time.Time { return now }

	a := Action{Kind: "submit_review", Subject: "proposal/p1", Payload: map[string]float64{"metodologi": 80}}
	token, _, err := tokens.Issue(a)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		action Action
		salt   string
		at     time.Time
	}{
		{"different kind", token, Action{Kind: "approve_admin", Subject: a.Subject, Payload: a.Payload}, "confirm-salt", now},
		{"different subject", token, Action{Kind: a.Kind, Subject: "proposal/p2", Payload: a.Payload}, "confirm-salt", now},
		{"different actor", token, Action{Kind: a.Kind, Subject: a.Subject, Payload: a.Payload, Actor: "u-2"}, "confirm-salt", now},
		{"different payload", token, Action{Kind: a.Kind, Subject: a.Subject, Payload: map[string]float64{"metodologi": 81}}, "confirm-salt", now},
		{"different salt", token, a, "other-salt", now},
		{"expired", token, a, "confirm-salt", now.Add(2 * time.Minute)},
		{"malformed", "nonsense", a, "confirm-salt", now},
		{"bad expiry", "abc.def.ghi", a, "confirm-salt", now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewTokens(tt.salt, time.Minute)
			at := tt.at
			checker.now = func() time.Time { return at }
			assert.ErrorIs(t, checker.Check(tt.token, tt.action), ErrInvalidToken)
		})
	}
}

func TestForRequest_TwoStep(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokens("confirm-salt", time.Minute)
	a := approveAction("p1")

	// First call without a token asks for confirmation
	ok, err := tokens.ForRequest("").Confirm(ctx, a)
	assert.False(t, ok)
	pending, isPending := AsPending(err)
	require.True(t, isPending, "err = %v", err)
	assert.NotEmpty(t, pending.Token)
	assert.Equal(t, a.Kind, pending.Action.Kind)

	// Second call with the token goes through
	ok, err = tokens.ForRequest(pending.Token).Confirm(ctx, a)
	assert.NoError(t, err)
	assert.True(t, ok)

	// The same token does not confirm another proposal
	ok, err = tokens.ForRequest(pending.Token).Confirm(ctx, approveAction("p2"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestForRequest_BoundToSession(t *testing.T) {
	tokens := NewTokens("confirm-salt", time.Minute)
	a := Action{Kind: "save_profile", Subject: "profile/pribadi", Payload: map[string]string{"nama": "Sari"}}
	owner := auth.WithSession(context.Background(), auth.Session{Subject: "u-1", Role: "researcher"})
	other := auth.WithSession(context.Background(), auth.Session{Subject: "u-2", Role: "researcher"})

	_, err := tokens.ForRequest("").Confirm(owner, a)
	pending, ok := AsPending(err)
	require.True(t, ok, "err = %v", err)
	assert.Equal(t, "u-1", pending.Action.Actor)

	confirmed, err := tokens.ForRequest(pending.Token).Confirm(other, a)
	assert.False(t, confirmed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	confirmed, err = tokens.ForRequest(pending.Token).Confirm(context.Background(), a)
	assert.False(t, confirmed)
	assert.ErrorIs(t, err, ErrInvalidToken, "a token issued to a session needs that session")

	confirmed, err = tokens.ForRequest(pending.Token).Confirm(owner, a)
	require.NoError(t, err)
	assert.True(t, confirmed)
}

func TestPrompt(t *testing.T) {
	interactive := func() bool { return true }
	notInteractive := func() bool { return false }

	tests := []struct {
		name        string
		input       string
		assumeYes   bool
		interactive func() bool
		destructive bool
		want        bool
		wantOut     string
	}{
		{"yes", "y\n", false, interactive, false, true, "[y/N]"},
		{"ya", "Ya\n", false, interactive, false, true, "[y/N]"},
		{"no", "n\n", false, interactive, false, false, "[y/N]"},
		{"empty answer declines", "\n", false, interactive, false, false, "[y/N]"},
		{"eof declines", "", false, interactive, false, false, "[y/N]"},
		{"destructive warns", "yes\n", false, interactive, true, true, "PERINGATAN"},
		{"non-terminal declines", "y\n", false, notInteractive, false, false, "--yes"},
		{"assume yes", "", true, notInteractive, false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := &Prompt{In: strings.NewReader(tt.input), Out: &out, AssumeYes: tt.assumeYes, Interactive: tt.interactive}

			a := approveAction("p1")
			a.Destructive = tt.destructive
			got, err := p.Confirm(context.Background(), a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestPrompt_ContextCancelled(t *testing.T) {
	blocked := &blockingReader{ch: make(chan struct{})}
	defer close(blocked.ch)

	p := &Prompt{In: blocked, Out: &bytes.Buffer{}, Interactive: func() bool { return true }}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := p.Confirm(ctx, approveAction("p1"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

type blockingReader struct{ ch chan struct{} }

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.ch
	return 0, errors.New("closed")
}
