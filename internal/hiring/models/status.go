package models

import (
	e "github.com/gartstein/hiring/internal/hiring/errors"
)

// Status is the lifecycle state of an application.
type Status string

const (
	StatusDraft     Status = "DR"
	StatusApplied   Status = "AP"
	StatusInterview Status = "IN"
	StatusOffer     Status = "OF"
	StatusRejected  Status = "RE"
)

// transitions is the only copy of the application status rules.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusApplied},
	StatusApplied:   {StatusDraft, StatusInterview, StatusOffer, StatusRejected},
	StatusInterview: {StatusOffer, StatusRejected},
	StatusOffer:     nil,
	StatusRejected:  nil,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// String returns the human readable status name.
func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusApplied:
		return "Applied"
	case StatusInterview:
		return "Interview"
	case StatusOffer:
		return "Offer"
	case StatusRejected:
		return "Rejected"
	}
	return string(s)
}

// CanTransition reports whether the table allows from -> to.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a TransitionError when from -> to is not allowed.
func CheckTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &e.TransitionError{From: from.String(), To: to.String()}
	}
	return nil
}
