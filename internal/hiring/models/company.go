// Package models defines the domain models of the hiring service: identities,
// companies, job postings, screening questions, applications, answers and
// interviews, together with the application status transition table.
package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanyType represents the type of a company.
type CompanyType string

const (
	// Corporations represents a corporation.
	Corporations       CompanyType = "CORPORATIONS"
	NonProfit          CompanyType = "NON_PROFIT"
	Cooperative        CompanyType = "COOPERATIVE"
	SoleProprietorship CompanyType = "SOLE_PROPRIETORSHIP"
)

// Valid reports whether t is one of the known company types.
func (t CompanyType) Valid() bool {
	switch t {
	case Corporations, NonProfit, Cooperative, SoleProprietorship:
		return true
	}
	return false
}

// Company defines the domain model for a hiring company.
type Company struct {
	// ID is the unique identifier for the company.
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// Name is the company’s name.
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	// Description provides details about the company.
	Description string `gorm:"size:3000" json:"description"`
	// Website is the public landing page of the company.
	Website string `gorm:"size:255" json:"website"`
	// Employees is the number of employees in the company.
	Employees int `gorm:"check:employees >= 0" json:"employees"`
	// Type specifies the category/type of the company.
	Type CompanyType `gorm:"size:32" json:"type"`
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt records the timestamp when the company was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	// Name is the new name for the company.
	Name *string
	// Description is the new description.
	Description *string
	// Website is the new website.
	Website *string
	// Employees is the new employee count.
	Employees *int
	// Type is the updated company type.
	Type *CompanyType
}
