package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Application is an applicant's application to one posting. At most one row
// exists per (applicant, posting) pair.
type Application struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_applicant_posting" json:"applicant_id"`
	JobPostingID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_applicant_posting" json:"job_posting_id"`
	ResumeRef      *string   `gorm:"size:255" json:"resume_ref,omitempty"`
	CoverLetterRef *string   `gorm:"size:255" json:"cover_letter_ref,omitempty"`
	Notes          string    `gorm:"size:2000" json:"notes"`
	// AppliedOn is set when the draft is created and never rewritten.
	AppliedOn time.Time `gorm:"<-:create" json:"applied_on"`
	Status    Status    `gorm:"size:2;not null;index" json:"status"`
}

// HasResume reports whether a resume reference is attached.
func (a *Application) HasResume() bool {
	return a.ResumeRef != nil && strings.TrimSpace(*a.ResumeRef) != ""
}

// ApplicationUpdate holds the fields an applicant may edit on a draft.
type ApplicationUpdate struct {
	Notes          *string
	ResumeRef      *string
	CoverLetterRef *string
	JobPostingID   *uuid.UUID
}

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	JobPostingID *uuid.UUID
	Status       *Status
}

// JobAppAnswer is the single answer slot of an application for one question.
type JobAppAnswer struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answers_application_question" json:"application_id"`
	QuestionID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_answers_application_question" json:"question_id"`
	Value         *string   `gorm:"size:5000" json:"value"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Blank reports whether the answer carries no usable value.
func (a *JobAppAnswer) Blank() bool {
	return a == nil || a.Value == nil || strings.TrimSpace(*a.Value) == ""
}

// QuestionAnswer pairs a question with the caller's answer slot.
type QuestionAnswer struct {
	Question JobAppQuestion `json:"question"`
	Answer   *JobAppAnswer  `json:"answer"`
}
