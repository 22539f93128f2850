// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package confirm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrDeclined     = errors.New("action cancelled")
	ErrInvalidToken = errors.New("invalid or expired confirmation token")
)

// Action describes a side effect awaiting confirmation. Payload is digested
// into HTTP tokens so a token cannot be reused for a different request body.
type Action struct {
	Kind        string
	Subject     string
	Message     string
	Destructive bool
	Payload     any

	// Actor is the session subject an HTTP token is bound to. The HTTP
	// confirmer fills it from the request session.
	Actor string
}

// Confirmer asks whether an action may run. Returning false with a nil error
// means the user declined.
type Confirmer interface {
	Confirm(ctx context.Context, a Action) (bool, error)
}

// Func adapts a function to Confirmer.
type Func func(ctx context.Context, a Action) (bool, error)

func (f Func) Confirm(ctx context.Context, a Action) (bool, error) {
	return f(ctx, a)
}

// Always and Never answer without asking.
var (
	Always Confirmer = Func(func(context.Context, Action) (bool, error) { return true, nil })
	Never  Confirmer = Func(func(context.Context, Action) (bool, error) { return false, nil })
)

// Require asks c and turns a refusal into ErrDeclined.
func Require(ctx context.Context, c Confirmer, a Action) error {
	ok, err := c.Confirm(ctx, a)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}

// PendingError is returned by the HTTP confirmer when no token was presented.
// The client repeats the request with Token to execute it.
type PendingError struct {
	Token     string
	Action    Action
	ExpiresAt time.Time
}

func (e *PendingError) Error() string {
	return fmt.Sprintf("confirmation required for %s %s", e.Action.Kind, e.Action.Subject)
}

// AsPending unwraps a *PendingError from err.
func AsPending(err error) (*PendingError, bool) {
	var p *PendingError
	if errors.As(err, &p) {
		return p, true
	}
	return nil, false
}
