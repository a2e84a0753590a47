package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkMode is where the work happens.
type WorkMode string

const (
	WorkRemote WorkMode = "RE"
	WorkOnSite WorkMode = "ON"
	WorkHybrid WorkMode = "HY"
)

// Valid reports whether m is a known work mode.
func (m WorkMode) Valid() bool {
	switch m {
	case WorkRemote, WorkOnSite, WorkHybrid:
		return true
	}
	return false
}

// EmploymentKind is the contract type of a posting.
type EmploymentKind string

const (
	FullTime   EmploymentKind = "FT"
	PartTime   EmploymentKind = "PT"
	Contract   EmploymentKind = "CT"
	Internship EmploymentKind = "IN"
)

// Valid reports whether k is a known employment kind.
func (k EmploymentKind) Valid() bool {
	switch k {
	case FullTime, PartTime, Contract, Internship:
		return true
	}
	return false
}

// JobPosting is a job opening owned by exactly one company.
type JobPosting struct {
	// ID is the unique identifier for the posting.
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// CompanyID is the owner; written once on create.
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null;<-:create" json:"company_id"`
	// Title is the headline of the opening.
	Title string `gorm:"size:100;not null" json:"title"`
	// Location is a free-form place description.
	Location string `gorm:"size:100" json:"location"`
	// WorkMode is remote, on-site or hybrid.
	WorkMode WorkMode `gorm:"size:2" json:"work_mode"`
	// SalaryRange is a display string such as "80k-100k".
	SalaryRange *string `gorm:"size:50" json:"salary_range,omitempty"`
	// CurrencyCode is the ISO-4217 currency of the salary range.
	CurrencyCode string `gorm:"size:3" json:"currency_code"`
	// EmploymentKind is full-time, part-time, contract or internship.
	EmploymentKind EmploymentKind `gorm:"size:2" json:"employment_kind"`
	// Description is the body of the posting.
	Description string `gorm:"size:1000" json:"description"`
	// PostedAt is set on create and never rewritten.
	PostedAt time.Time `gorm:"index;<-:create" json:"posted_at"`
}

// JobPostingUpdate holds the mutable posting fields. The owning company and
// posting time are deliberately absent.
type JobPostingUpdate struct {
	Title          *string
	Location       *string
	WorkMode       *WorkMode
	SalaryRange    *string
	CurrencyCode   *string
	EmploymentKind *EmploymentKind
	Description    *string
}
