package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/hiring/internal/hiring/db"
	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/events"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxNotesLength     = 2000
	maxReferenceLength = 255

	// applyRetries bounds how often Apply re-runs after losing the race
	// for the (applicant, posting) unique index.
	applyRetries  = 2
	applyInterval = 10 * time.Millisecond
)

// ApplyResult is the draft application together with its answer slots.
type ApplyResult struct {
	Application *models.Application
	Questions   []models.QuestionAnswer
	// Created is false when an existing draft was returned.
	Created bool
}

// Apply returns the applicant's draft for a posting, creating it and one
// blank answer per question of the posting on first call. Repeated calls
// return the same draft and fill in slots for questions added since.
func (s *HiringService) Apply(ctx context.Context, actor models.Actor, postingID uuid.UUID) (*ApplyResult, error) {
	if !actor.IsApplicant() {
		return nil, e.Denied("only applicants can apply")
	}
	posting, err := s.repo.GetPosting(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}

	var result *ApplyResult
	operation := func() error {
		err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
			var err error
			result, err = s.provisionDraft(ctx, tx, actor, posting.ID)
			return err
		})
		if err != nil && !lostInsertRace(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(applyInterval), applyRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("failed to apply: %w", err)
	}

	if result.Created {
		s.logger.Info("draft application created",
			zap.String("application_id", result.Application.ID.String()),
			zap.String("job_posting_id", posting.ID.String()),
		)
		s.producer.Produce(events.ApplicationDrafted, result.Application, nil)
	}
	return result, nil
}

func (s *HiringService) provisionDraft(ctx context.Context, tx *db.Repository, actor models.Actor, postingID uuid.UUID) (*ApplyResult, error) {
	posting, err := tx.GetPostingForUpdate(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	created := false
	app, err := tx.FindApplication(ctx, actor.UserID, posting.ID)
	switch {
	case err == nil:
		if app.Status != models.StatusDraft {
			return nil, &e.ConflictError{Resource: "application", ID: app.ID, Reason: "already submitted for this job posting"}
		}
	case errors.Is(err, e.ErrNotFound):
		app = &models.Application{
			ID:           uuid.New(),
			ApplicantID:  actor.UserID,
			JobPostingID: posting.ID,
			AppliedOn:    s.now(),
			Status:       models.StatusDraft,
		}
		if err := tx.CreateApplication(ctx, app); err != nil {
			return nil, err
		}
		created = true
	default:
		return nil, err
	}

	questions, err := provisionAnswers(ctx, tx, app)
	if err != nil {
		return nil, err
	}
	return &ApplyResult{Application: app, Questions: questions, Created: created}, nil
}

// provisionAnswers makes sure every question of the application's posting
// has an answer slot and returns them in questionnaire order.
func provisionAnswers(ctx context.Context, tx *db.Repository, app *models.Application) ([]models.QuestionAnswer, error) {
	questions, err := tx.ListQuestions(ctx, app.JobPostingID)
	if err != nil {
		return nil, err
	}
	pairs := make([]models.QuestionAnswer, 0, len(questions))
	for _, q := range questions {
		answer, _, err := tx.EnsureAnswer(ctx, app.ID, q.ID)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, models.QuestionAnswer{Question: q, Answer: answer})
	}
	return pairs, nil
}

// lostInsertRace reports a unique-index violation that is not one of the
// service's own conflict answers. Re-running the operation resolves it.
func lostInsertRace(err error) bool {
	var conflict *e.ConflictError
	return errors.Is(err, e.ErrConflict) && !errors.As(err, &conflict)
}

// GetApplication returns an application visible to the actor.
func (s *HiringService) GetApplication(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	posting, err := s.repo.GetPosting(ctx, app.JobPostingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	if !visibleTo(actor, app, posting) {
		return nil, fmt.Errorf("failed to get application: %w", e.ErrNotFound)
	}
	return app, nil
}

// ListApplications returns the applications visible to the actor, newest first.
func (s *HiringService) ListApplications(ctx context.Context, actor models.Actor, filter models.ApplicationFilter) ([]models.Application, error) {
	scope, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, e.Invalid("status", "unknown application status")
	}
	apps, err := s.repo.ListApplications(ctx, scope, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// EditApplication changes the editable fields of a draft. Moving the draft
// to another posting replaces its answer slots with those of the new
// posting.
func (s *HiringService) EditApplication(ctx context.Context, actor models.Actor, id uuid.UUID, update *models.ApplicationUpdate) (*models.Application, error) {
	if err := validateApplicationUpdate(update); err != nil {
		return nil, err
	}

	var updated *models.Application
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		app, err := tx.GetApplicationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := ownedBy(actor)(ctx, tx, app); err != nil {
			return err
		}
		if app.Status != models.StatusDraft {
			return e.Invalid("status", "only draft applications can be edited")
		}

		retarget := update.JobPostingID != nil && *update.JobPostingID != app.JobPostingID
		if retarget {
			if _, err := tx.GetPostingForUpdate(ctx, *update.JobPostingID); err != nil {
				return fmt.Errorf("failed to get job posting: %w", err)
			}
			existing, err := tx.FindApplication(ctx, actor.UserID, *update.JobPostingID)
			if err == nil {
				return &e.ConflictError{Resource: "application", ID: existing.ID, Reason: "already applied to this job posting"}
			}
			if !errors.Is(err, e.ErrNotFound) {
				return err
			}
		}

		if err := tx.UpdateApplicationFields(ctx, app.ID, update); err != nil {
			return err
		}
		if retarget {
			if err := tx.DeleteAnswersByApplication(ctx, app.ID); err != nil {
				return err
			}
		}
		if updated, err = tx.GetApplication(ctx, app.ID); err != nil {
			return err
		}
		if retarget {
			_, err = provisionAnswers(ctx, tx, updated)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit application: %w", err)
	}

	s.producer.Produce(events.ApplicationUpdated, updated, nil)
	return updated, nil
}

func validateApplicationUpdate(update *models.ApplicationUpdate) error {
	if update.Notes != nil && len(*update.Notes) > maxNotesLength {
		return e.Invalid("notes", fmt.Sprintf("must be at most %d characters", maxNotesLength))
	}
	for field, ref := range map[string]*string{"resume_ref": update.ResumeRef, "cover_letter_ref": update.CoverLetterRef} {
		if ref != nil && len(strings.TrimSpace(*ref)) > maxReferenceLength {
			return e.Invalid(field, fmt.Sprintf("must be at most %d characters", maxReferenceLength))
		}
	}
	return nil
}

// Submit moves a complete draft to Applied.
func (s *HiringService) Submit(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error) {
	return s.changeStatus(ctx, id, models.StatusApplied, events.ApplicationSubmitted, ownedBy(actor), complete)
}

// Withdraw moves a submitted application back to Draft.
func (s *HiringService) Withdraw(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error) {
	return s.changeStatus(ctx, id, models.StatusDraft, events.ApplicationWithdrawn, ownedBy(actor))
}

// PromoteToInterview moves an Applied application to the Interview stage.
func (s *HiringService) PromoteToInterview(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error) {
	return s.changeStatus(ctx, id, models.StatusInterview, events.ApplicationStatusChanged, employerOf(actor))
}

// Offer extends an offer on an Applied or Interview application.
func (s *HiringService) Offer(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error) {
	return s.changeStatus(ctx, id, models.StatusOffer, events.ApplicationStatusChanged, employerOf(actor))
}

// Reject rejects an Applied or Interview application.
func (s *HiringService) Reject(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error) {
	return s.changeStatus(ctx, id, models.StatusRejected, events.ApplicationStatusChanged, employerOf(actor))
}

// DeleteApplication removes an application with its answers and interviews.
func (s *HiringService) DeleteApplication(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	var deleted *models.Application
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		app, err := tx.GetApplicationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := ownedBy(actor)(ctx, tx, app); err != nil {
			return err
		}
		if err := deleteApplicationTree(ctx, tx, app.ID); err != nil {
			return err
		}
		deleted = app
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	s.logger.Info("application deleted", zap.String("application_id", id.String()))
	s.producer.Produce(events.ApplicationDeleted, deleted, nil)
	return nil
}

func deleteApplicationTree(ctx context.Context, tx *db.Repository, id uuid.UUID) error {
	if err := tx.DeleteInterviewsByApplication(ctx, id); err != nil {
		return err
	}
	if err := tx.DeleteAnswersByApplication(ctx, id); err != nil {
		return err
	}
	return tx.DeleteApplication(ctx, id)
}
