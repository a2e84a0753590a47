// Package errors holds the error taxonomy shared by every layer of the hiring
// service. Callers match on the sentinels with errors.Is and pull structured
// detail out of the typed errors with errors.As.
package errors

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = fmt.Errorf("not found")
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrPermissionDenied = fmt.Errorf("permission denied")
	ErrConflict         = fmt.Errorf("conflict")
	// ErrInvalidTransition is a validation failure, so it also matches ErrInvalidInput.
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrInvalidInput)
	ErrUnauthenticated   = fmt.Errorf("unauthenticated")
)

// ConflictError reports a uniqueness rule that blocked the operation and the
// entity that already holds the slot.
type ConflictError struct {
	Resource string
	ID       uuid.UUID
	Reason   string
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %s: %s", e.Resource, e.ID, e.Reason)
	}
	return fmt.Sprintf("%s %s already exists", e.Resource, e.ID)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// MissingQuestion identifies a required screening question left unanswered.
type MissingQuestion struct {
	QuestionID uuid.UUID `json:"question_id"`
	Prompt     string    `json:"prompt"`
}

// MissingQuestionsError lists every required question that blocks a submit.
type MissingQuestionsError struct {
	Questions []MissingQuestion
}

func (e *MissingQuestionsError) Error() string {
	prompts := make([]string, 0, len(e.Questions))
	for _, q := range e.Questions {
		prompts = append(prompts, fmt.Sprintf("%q", q.Prompt))
	}
	return fmt.Sprintf("required questions unanswered: %s", strings.Join(prompts, ", "))
}

func (e *MissingQuestionsError) Unwrap() error { return ErrInvalidInput }

// TransitionError is returned when a status change is not in the transition table.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move application from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// FieldError is a validation failure tied to a single input field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a FieldError.
func Invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// Denied wraps ErrPermissionDenied with a human readable reason.
func Denied(reason string) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, reason)
}
