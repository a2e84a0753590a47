package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountKind distinguishes applicants from employers.
type AccountKind string

const (
	AccountApplicant AccountKind = "AP"
	AccountEmployer  AccountKind = "EM"
)

// Valid reports whether k is a known account kind.
func (k AccountKind) Valid() bool {
	return k == AccountApplicant || k == AccountEmployer
}

// User is an authenticated principal of the user directory.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254" json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile attaches an account kind and an optional company to a user. Every
// authorization decision starts from the profile.
type Profile struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	AccountKind AccountKind `gorm:"size:2;not null" json:"account_kind"`
	// CompanyID is only ever set for employers.
	CompanyID *uuid.UUID `gorm:"type:uuid;index" json:"company_id,omitempty"`
	// TokenInvalidBefore is the logout cutoff: tokens issued at or before it are rejected.
	TokenInvalidBefore *time.Time `json:"-"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Actor is the authenticated caller of every controller operation.
type Actor struct {
	UserID  uuid.UUID
	Profile Profile
}

// IsApplicant reports whether the actor holds an applicant profile.
func (a Actor) IsApplicant() bool {
	return a.Profile.AccountKind == AccountApplicant
}

// IsEmployer reports whether the actor holds an employer profile.
func (a Actor) IsEmployer() bool {
	return a.Profile.AccountKind == AccountEmployer
}

// EmployedBy reports whether the actor is an employer of the given company.
func (a Actor) EmployedBy(companyID uuid.UUID) bool {
	return a.IsEmployer() && a.Profile.CompanyID != nil && *a.Profile.CompanyID == companyID
}
