package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AnswerKind is the expected shape of an answer to a screening question.
type AnswerKind string

const (
	ShortText AnswerKind = "ST"
	LongText  AnswerKind = "LT"
	Number    AnswerKind = "NU"
	Date      AnswerKind = "DA"
	YesNo     AnswerKind = "YN"
	Choice    AnswerKind = "CH"
)

// DateLayout is the accepted format of Date answers.
const DateLayout = "2006-01-02"

// Valid reports whether k is a known answer kind.
func (k AnswerKind) Valid() bool {
	switch k {
	case ShortText, LongText, Number, Date, YesNo, Choice:
		return true
	}
	return false
}

// JobAppQuestion is a screening question attached to one posting.
type JobAppQuestion struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// JobPostingID cannot change after creation.
	JobPostingID uuid.UUID  `gorm:"type:uuid;index;not null;<-:create" json:"job_posting_id"`
	Prompt       string     `gorm:"size:500;not null" json:"prompt"`
	Kind         AnswerKind `gorm:"size:2;not null" json:"kind"`
	Required     bool       `json:"required"`
	Position     int        `json:"position"`
	// Options lists the accepted values of a Choice question.
	Options   datatypes.JSONSlice[string] `json:"options,omitempty"`
	CreatedAt time.Time                   `json:"created_at"`
}

// JobAppQuestionUpdate holds the mutable question fields.
type JobAppQuestionUpdate struct {
	// JobPostingID is accepted only to reject attempts to move a question.
	JobPostingID *uuid.UUID
	Prompt       *string
	Kind         *AnswerKind
	Required     *bool
	Position     *int
	Options      []string
}

// AcceptsValue reports whether a non-blank answer value fits the question kind.
func (q *JobAppQuestion) AcceptsValue(value string) bool {
	v := strings.TrimSpace(value)
	switch q.Kind {
	case Number:
		n, err := strconv.ParseFloat(v, 64)
		return err == nil && !math.IsNaN(n) && !math.IsInf(n, 0)
	case Date:
		_, err := time.Parse(DateLayout, v)
		return err == nil
	case YesNo:
		switch strings.ToLower(v) {
		case "yes", "no":
			return true
		}
		return false
	case Choice:
		for _, opt := range q.Options {
			if opt == v {
				return true
			}
		}
		return false
	case LongText:
		return len(v) <= 5000
	default:
		return len(v) <= 500
	}
}

// QuestionOptions converts a plain option list into its column type.
func QuestionOptions(opts []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](opts)
}
