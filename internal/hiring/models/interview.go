package models

import (
	"time"

	"github.com/google/uuid"
)

// InterviewMode is how an interview is held.
type InterviewMode string

const (
	InterviewPhone    InterviewMode = "PH"
	InterviewVideo    InterviewMode = "VI"
	InterviewInPerson InterviewMode = "IP"
)

// Valid reports whether m is a known interview mode.
func (m InterviewMode) Valid() bool {
	switch m {
	case InterviewPhone, InterviewVideo, InterviewInPerson:
		return true
	}
	return false
}

// Interview is the single interview scheduled for an application.
type Interview struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// ApplicationID is unique: one interview per application.
	ApplicationID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex;<-:create" json:"application_id"`
	ScheduledAt   time.Time     `gorm:"not null" json:"scheduled_at"`
	Interviewer   string        `gorm:"size:100;not null" json:"interviewer"`
	Notes         string        `gorm:"size:1000" json:"notes"`
	Mode          InterviewMode `gorm:"size:2;not null" json:"mode"`
	CreatedAt     time.Time     `json:"created_at"`
}

// InterviewUpdate holds the mutable interview fields.
type InterviewUpdate struct {
	// ApplicationID is accepted only to reject attempts to move an interview.
	ApplicationID *uuid.UUID
	ScheduledAt   *time.Time
	Interviewer   *string
	Notes         *string
	Mode          *InterviewMode
}
