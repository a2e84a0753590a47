package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJobAppQuestion_AcceptsValue(t *testing.T) {
	tests := []struct {
		name     string
		question JobAppQuestion
		value    string
		want     bool
	}{
		{"short text", JobAppQuestion{Kind: ShortText}, "hello", true},
		{"number ok", JobAppQuestion{Kind: Number}, " 42.5 ", true},
		{"number bad", JobAppQuestion{Kind: Number}, "forty", false},
		{"number NaN", JobAppQuestion{Kind: Number}, "NaN", false},
		{"number infinity", JobAppQuestion{Kind: Number}, "Inf", false},
		{"number negative infinity", JobAppQuestion{Kind: Number}, "-inf", false},
		{"number exponent", JobAppQuestion{Kind: Number}, "1e3", true},
		{"date ok", JobAppQuestion{Kind: Date}, "2026-02-01", true},
		{"date bad", JobAppQuestion{Kind: Date}, "01/02/2026", false},
		{"yes no ok", JobAppQuestion{Kind: YesNo}, "Yes", true},
		{"yes no bad", JobAppQuestion{Kind: YesNo}, "maybe", false},
		{"choice ok", JobAppQuestion{Kind: Choice, Options: []string{"Go", "Rust"}}, "Go", true},
		{"choice bad", JobAppQuestion{Kind: Choice, Options: []string{"Go", "Rust"}}, "Java", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.question.AcceptsValue(tt.value))
		})
	}
}

func TestActor(t *testing.T) {
	companyID := uuid.New()
	employer := Actor{UserID: uuid.New(), Profile: Profile{AccountKind: AccountEmployer, CompanyID: &companyID}}
	applicant := Actor{UserID: uuid.New(), Profile: Profile{AccountKind: AccountApplicant}}
	orphan := Actor{UserID: uuid.New(), Profile: Profile{AccountKind: AccountEmployer}}

	assert.True(t, employer.IsEmployer())
	assert.True(t, employer.EmployedBy(companyID))
	assert.False(t, employer.EmployedBy(uuid.New()))
	assert.True(t, applicant.IsApplicant())
	assert.False(t, applicant.EmployedBy(companyID))
	assert.False(t, orphan.EmployedBy(companyID))
}

func TestAnswerBlank(t *testing.T) {
	blank := "   "
	filled := "ok"

	assert.True(t, (*JobAppAnswer)(nil).Blank())
	assert.True(t, (&JobAppAnswer{}).Blank())
	assert.True(t, (&JobAppAnswer{Value: &blank}).Blank())
	assert.False(t, (&JobAppAnswer{Value: &filled}).Blank())
}
