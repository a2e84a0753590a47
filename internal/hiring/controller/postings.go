package controller

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gartstein/hiring/internal/hiring/db"
	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxTitleLength       = 100
	maxLocationLength    = 100
	maxSalaryLength      = 50
	maxDescriptionLength = 1000
	defaultCurrency      = "USD"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// CreatePosting publishes a job posting under the employer's company.
func (s *HiringService) CreatePosting(ctx context.Context, actor models.Actor, posting *models.JobPosting) (*models.JobPosting, error) {
	if err := requireEmployer(actor); err != nil {
		return nil, err
	}
	posting.Title = strings.TrimSpace(posting.Title)
	if posting.WorkMode == "" {
		posting.WorkMode = models.WorkOnSite
	}
	if posting.EmploymentKind == "" {
		posting.EmploymentKind = models.FullTime
	}
	if posting.CurrencyCode == "" {
		posting.CurrencyCode = defaultCurrency
	}
	posting.CurrencyCode = strings.ToUpper(posting.CurrencyCode)
	if err := validatePosting(posting); err != nil {
		return nil, err
	}

	posting.ID = uuid.New()
	posting.CompanyID = *actor.Profile.CompanyID
	posting.PostedAt = s.now()
	if err := s.repo.CreatePosting(ctx, posting); err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}

	s.logger.Info("job posting created",
		zap.String("job_posting_id", posting.ID.String()),
		zap.String("company_id", posting.CompanyID.String()),
	)
	return posting, nil
}

// GetPosting retrieves a job posting by id.
func (s *HiringService) GetPosting(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	posting, err := s.repo.GetPosting(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return posting, nil
}

// ListPostings returns every posting, newest first. Employers only see the
// postings of their company.
func (s *HiringService) ListPostings(ctx context.Context, actor models.Actor) ([]models.JobPosting, error) {
	var companyID *uuid.UUID
	if actor.IsEmployer() {
		if actor.Profile.CompanyID == nil {
			return []models.JobPosting{}, nil
		}
		companyID = actor.Profile.CompanyID
	}
	postings, err := s.repo.ListPostings(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return postings, nil
}

// UpdatePosting modifies a posting of the employer's company. The owning
// company and the posting date never change.
func (s *HiringService) UpdatePosting(ctx context.Context, actor models.Actor, id uuid.UUID, update *models.JobPostingUpdate) (*models.JobPosting, error) {
	current, err := s.repo.GetPosting(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	if err := requireEmployerOf(actor, current); err != nil {
		return nil, err
	}

	merged := *current
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		update.Title = &title
		merged.Title = title
	}
	if update.Location != nil {
		merged.Location = *update.Location
	}
	if update.WorkMode != nil {
		merged.WorkMode = *update.WorkMode
	}
	if update.SalaryRange != nil {
		merged.SalaryRange = update.SalaryRange
	}
	if update.CurrencyCode != nil {
		code := strings.ToUpper(*update.CurrencyCode)
		update.CurrencyCode = &code
		merged.CurrencyCode = code
	}
	if update.EmploymentKind != nil {
		merged.EmploymentKind = *update.EmploymentKind
	}
	if update.Description != nil {
		merged.Description = *update.Description
	}
	if err := validatePosting(&merged); err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePosting(ctx, id, update); err != nil {
		return nil, fmt.Errorf("failed to update job posting: %w", err)
	}
	return s.GetPosting(ctx, id)
}

// DeletePosting removes a posting with its questions, the applications to
// it and everything those applications own.
func (s *HiringService) DeletePosting(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	posting, err := s.repo.GetPosting(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get job posting: %w", err)
	}
	if err := requireEmployerOf(actor, posting); err != nil {
		return err
	}

	removed := 0
	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if _, err := tx.GetPostingForUpdate(ctx, id); err != nil {
			return err
		}
		ids, err := tx.ApplicationIDsByPosting(ctx, id)
		if err != nil {
			return err
		}
		for _, appID := range ids {
			if err := deleteApplicationTree(ctx, tx, appID); err != nil {
				return err
			}
		}
		removed = len(ids)
		if err := tx.DeleteQuestionsByPosting(ctx, id); err != nil {
			return err
		}
		return tx.DeletePosting(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete job posting: %w", err)
	}

	s.logger.Info("job posting deleted",
		zap.String("job_posting_id", id.String()),
		zap.Int("applications_removed", removed),
	)
	return nil
}

func validatePosting(posting *models.JobPosting) error {
	switch {
	case posting.Title == "" || len(posting.Title) > maxTitleLength:
		return e.Invalid("title", fmt.Sprintf("must be 1 to %d characters", maxTitleLength))
	case len(posting.Location) > maxLocationLength:
		return e.Invalid("location", fmt.Sprintf("must be at most %d characters", maxLocationLength))
	case posting.SalaryRange != nil && len(*posting.SalaryRange) > maxSalaryLength:
		return e.Invalid("salary_range", fmt.Sprintf("must be at most %d characters", maxSalaryLength))
	case len(posting.Description) > maxDescriptionLength:
		return e.Invalid("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	case !currencyCode.MatchString(posting.CurrencyCode):
		return e.Invalid("currency_code", "must be a three-letter ISO 4217 code")
	case !posting.WorkMode.Valid():
		return e.Invalid("work_mode", "unknown work mode")
	case !posting.EmploymentKind.Valid():
		return e.Invalid("employment_kind", "unknown employment kind")
	}
	return nil
}
