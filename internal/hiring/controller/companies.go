package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/hiring/internal/hiring/db"
	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxCompanyNameLength        = 100
	maxCompanyDescriptionLength = 3000
	maxWebsiteLength            = 255
)

// CreateCompany registers a company and attaches the calling employer to it.
func (s *HiringService) CreateCompany(ctx context.Context, actor models.Actor, company *models.Company) (*models.Company, error) {
	if !actor.IsEmployer() {
		return nil, e.Denied("only employers can create companies")
	}
	if actor.Profile.CompanyID != nil {
		return nil, &e.ConflictError{Resource: "company", ID: *actor.Profile.CompanyID, Reason: "employer already belongs to a company"}
	}
	company.Name = strings.TrimSpace(company.Name)
	if company.Type == "" {
		company.Type = models.Corporations
	}
	if err := validateCompany(company); err != nil {
		return nil, err
	}

	exists, err := s.repo.CompanyExistsByName(ctx, company.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check name existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: company name already taken", e.ErrConflict)
	}

	company.ID = uuid.New()
	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.CreateCompany(ctx, company); err != nil {
			return err
		}
		return tx.SetProfileCompany(ctx, actor.UserID, company.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.logger.Info("company created",
		zap.String("company_id", company.ID.String()),
		zap.String("user_id", actor.UserID.String()),
	)
	return company, nil
}

// GetCompany retrieves a company by id.
func (s *HiringService) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// UpdateCompany modifies the company of the calling employer.
func (s *HiringService) UpdateCompany(ctx context.Context, actor models.Actor, id uuid.UUID, update *models.CompanyUpdate) (*models.Company, error) {
	if !actor.EmployedBy(id) {
		return nil, e.Denied("only employers of the company can update it")
	}
	current, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	merged := *current
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		update.Name = &name
		merged.Name = name
	}
	if update.Description != nil {
		merged.Description = *update.Description
	}
	if update.Website != nil {
		merged.Website = *update.Website
	}
	if update.Employees != nil {
		merged.Employees = *update.Employees
	}
	if update.Type != nil {
		merged.Type = *update.Type
	}
	if err := validateCompany(&merged); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCompany(ctx, id, update); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	updated, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		s.logger.Error("Failed to reload company",
			zap.Error(err),
			zap.String("company_id", id.String()),
		)
		return nil, err
	}
	return updated, nil
}

// AssignEmployer attaches another employer profile to the caller's company.
func (s *HiringService) AssignEmployer(ctx context.Context, actor models.Actor, companyID, userID uuid.UUID) (*models.Profile, error) {
	if !actor.EmployedBy(companyID) {
		return nil, e.Denied("only employers of the company can add employees")
	}
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile.AccountKind != models.AccountEmployer {
		return nil, e.Invalid("user_id", "only employer accounts can join a company")
	}
	if profile.CompanyID != nil && *profile.CompanyID != companyID {
		return nil, &e.ConflictError{Resource: "company", ID: *profile.CompanyID, Reason: "employer already belongs to another company"}
	}

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.SetProfileCompany(ctx, userID, companyID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign employer: %w", err)
	}
	return s.repo.GetProfile(ctx, userID)
}

func validateCompany(company *models.Company) error {
	switch {
	case company.Name == "" || len(company.Name) > maxCompanyNameLength:
		return e.Invalid("name", fmt.Sprintf("must be 1 to %d characters", maxCompanyNameLength))
	case len(company.Description) > maxCompanyDescriptionLength:
		return e.Invalid("description", "description too long")
	case len(company.Website) > maxWebsiteLength:
		return e.Invalid("website", "website too long")
	case company.Employees < 0:
		return e.Invalid("employees", "must not be negative")
	case !company.Type.Valid():
		return e.Invalid("type", "unknown company type")
	}
	return nil
}
