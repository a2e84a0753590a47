package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gartstein/hiring/internal/hiring/db"
	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/events"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxInterviewerLength    = 100
	maxInterviewNotesLength = 1000
)

// InterviewInput describes a new interview.
type InterviewInput struct {
	ApplicationID uuid.UUID
	ScheduledAt   time.Time
	Interviewer   string
	Notes         string
	Mode          models.InterviewMode
}

// CreateInterview schedules the interview of an application that an
// employer already promoted to the Interview stage.
func (s *HiringService) CreateInterview(ctx context.Context, actor models.Actor, input InterviewInput) (*models.Interview, error) {
	if input.Mode == "" {
		input.Mode = models.InterviewVideo
	}
	input.Interviewer = strings.TrimSpace(input.Interviewer)
	if err := validateInterview(input.ScheduledAt, input.Interviewer, input.Notes, input.Mode); err != nil {
		return nil, err
	}

	var (
		app       *models.Application
		interview *models.Interview
	)
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		if app, err = s.interviewingApplication(ctx, tx, actor, input.ApplicationID); err != nil {
			return err
		}
		existing, err := tx.FindInterview(ctx, app.ID)
		if err == nil {
			return &e.ConflictError{Resource: "interview", ID: existing.ID, Reason: "application already has an interview"}
		}
		if !errors.Is(err, e.ErrNotFound) {
			return err
		}

		interview = &models.Interview{
			ID:            uuid.New(),
			ApplicationID: app.ID,
			ScheduledAt:   input.ScheduledAt,
			Interviewer:   input.Interviewer,
			Notes:         input.Notes,
			Mode:          input.Mode,
		}
		return tx.CreateInterview(ctx, interview)
	})
	if lostInsertRace(err) {
		if existing, findErr := s.repo.FindInterview(ctx, input.ApplicationID); findErr == nil {
			err = &e.ConflictError{Resource: "interview", ID: existing.ID, Reason: "application already has an interview"}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	s.logger.Info("interview scheduled",
		zap.String("interview_id", interview.ID.String()),
		zap.String("application_id", app.ID.String()),
		zap.Time("scheduled_at", interview.ScheduledAt),
	)
	s.producer.Produce(events.InterviewScheduled, app, interview)
	return interview, nil
}

// UpdateInterview changes the schedule, interviewer, notes or mode of an
// interview. An interview cannot move to another application.
func (s *HiringService) UpdateInterview(ctx context.Context, actor models.Actor, id uuid.UUID, update *models.InterviewUpdate) (*models.Interview, error) {
	if update.Interviewer != nil {
		trimmed := strings.TrimSpace(*update.Interviewer)
		update.Interviewer = &trimmed
	}

	var (
		app       *models.Application
		interview *models.Interview
	)
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		current, err := tx.GetInterview(ctx, id)
		if err != nil {
			return err
		}
		if update.ApplicationID != nil && *update.ApplicationID != current.ApplicationID {
			return e.Invalid("application_id", "an interview cannot move to another application")
		}
		if app, err = s.interviewingApplication(ctx, tx, actor, current.ApplicationID); err != nil {
			return err
		}

		merged := *current
		applyInterviewUpdate(&merged, update)
		if err := validateInterview(merged.ScheduledAt, merged.Interviewer, merged.Notes, merged.Mode); err != nil {
			return err
		}
		if err := tx.UpdateInterview(ctx, id, update); err != nil {
			return err
		}
		interview, err = tx.GetInterview(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}

	s.producer.Produce(events.InterviewUpdated, app, interview)
	return interview, nil
}

// DeleteInterview cancels an interview. When it was the last interview of an
// application still in the Interview stage, the application returns to
// Applied in the same unit of work.
func (s *HiringService) DeleteInterview(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	var (
		app       *models.Application
		interview *models.Interview
		reverted  bool
	)
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		if interview, err = tx.GetInterview(ctx, id); err != nil {
			return err
		}
		if app, err = tx.GetApplicationForUpdate(ctx, interview.ApplicationID); err != nil {
			return err
		}
		if err := employerOf(actor)(ctx, tx, app); err != nil {
			return err
		}
		if err := tx.DeleteInterview(ctx, id); err != nil {
			return err
		}

		remaining, err := tx.CountInterviews(ctx, app.ID)
		if err != nil {
			return err
		}
		if remaining == 0 && app.Status == models.StatusInterview {
			if reverted, err = s.revert(ctx, tx, app.ID); err != nil {
				return err
			}
			if reverted {
				app.Status = models.StatusApplied
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}

	s.logger.Info("interview cancelled",
		zap.String("interview_id", id.String()),
		zap.Bool("application_reverted", reverted),
	)
	s.producer.Produce(events.InterviewCancelled, app, interview)
	if reverted {
		s.producer.Produce(events.ApplicationStatusChanged, app, nil)
	}
	return nil
}

// GetInterview returns an interview visible to the actor through its application.
func (s *HiringService) GetInterview(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Interview, error) {
	interview, err := s.repo.GetInterview(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if _, err := s.GetApplication(ctx, actor, interview.ApplicationID); err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", e.ErrNotFound)
	}
	return interview, nil
}

// ListInterviews returns the interviews visible to the actor, soonest first.
func (s *HiringService) ListInterviews(ctx context.Context, actor models.Actor) ([]models.Interview, error) {
	scope, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}
	interviews, err := s.repo.ListInterviews(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// interviewingApplication loads an application for interview scheduling and
// checks the actor is its employer and the application is in the Interview stage.
func (s *HiringService) interviewingApplication(ctx context.Context, tx *db.Repository, actor models.Actor, id uuid.UUID) (*models.Application, error) {
	app, err := tx.GetApplicationForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := employerOf(actor)(ctx, tx, app); err != nil {
		return nil, err
	}
	if app.Status != models.StatusInterview {
		return nil, e.Invalid("application_id", "application must be promoted to the interview stage first")
	}
	return app, nil
}

func applyInterviewUpdate(interview *models.Interview, update *models.InterviewUpdate) {
	if update.ScheduledAt != nil {
		interview.ScheduledAt = *update.ScheduledAt
	}
	if update.Interviewer != nil {
		interview.Interviewer = *update.Interviewer
	}
	if update.Notes != nil {
		interview.Notes = *update.Notes
	}
	if update.Mode != nil {
		interview.Mode = *update.Mode
	}
}

func validateInterview(scheduledAt time.Time, interviewer, notes string, mode models.InterviewMode) error {
	switch {
	case scheduledAt.IsZero():
		return e.Invalid("scheduled_at", "is required")
	case interviewer == "":
		return e.Invalid("interviewer", "is required")
	case len(interviewer) > maxInterviewerLength:
		return e.Invalid("interviewer", fmt.Sprintf("must be at most %d characters", maxInterviewerLength))
	case len(notes) > maxInterviewNotesLength:
		return e.Invalid("notes", fmt.Sprintf("must be at most %d characters", maxInterviewNotesLength))
	case !mode.Valid():
		return e.Invalid("mode", "unknown interview mode")
	}
	return nil
}
