// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/danielhkuo/hibah-admin/models"
)

var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrNotReviewable     = errors.New("proposal is not open for review")
	ErrReadOnly          = errors.New("review already submitted")
	ErrNotAssigned       = errors.New("reviewer is not assigned to this proposal")
	ErrQuotaExhausted    = errors.New("reviewer quota exhausted")
	ErrUnknownCriterion  = errors.New("unknown rubric criterion")
)

// TransitionError describes a rejected status change. It matches ErrIllegalTransition.
type TransitionError struct {
	From   models.ProposalStatus
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a proposal in status %q", e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// ValidationError collects field-level messages, shaped like the API's
// `errors` object so both can be rendered the same way.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns a ValidationError holding a single message.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no messages were collected.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Err returns e, or nil when nothing was collected.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
