package controller

import (
	"context"
	"fmt"

	"github.com/gartstein/hiring/internal/hiring/db"
	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/events"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// transition is the only place an application status moves forward. Inside
// the caller's transaction it re-reads the row, authorizes the actor, checks
// the transition table, runs the preconditions and writes the status column
// with a compare-and-set so a concurrent change cannot be overwritten.
func (s *HiringService) transition(
	ctx context.Context,
	tx *db.Repository,
	id uuid.UUID,
	to models.Status,
	authorize applicationGuard,
	preconditions ...applicationGuard,
) (*models.Application, error) {
	app, err := tx.GetApplicationForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, tx, app); err != nil {
		return nil, err
	}
	if err := models.CheckTransition(app.Status, to); err != nil {
		return nil, err
	}
	for _, check := range preconditions {
		if err := check(ctx, tx, app); err != nil {
			return nil, err
		}
	}

	ok, err := tx.CompareAndSetStatus(ctx, app.ID, app.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &e.ConflictError{Resource: "application", ID: app.ID, Reason: "status changed concurrently"}
	}
	app.Status = to
	return app, nil
}

// revert undoes the Interview stage when its interview is gone. It is the
// one status write that bypasses the transition table.
func (s *HiringService) revert(ctx context.Context, tx *db.Repository, id uuid.UUID) (bool, error) {
	return tx.CompareAndSetStatus(ctx, id, models.StatusInterview, models.StatusApplied)
}

// changeStatus runs transition in its own transaction and publishes the
// event once it committed.
func (s *HiringService) changeStatus(
	ctx context.Context,
	id uuid.UUID,
	to models.Status,
	event events.EventType,
	authorize applicationGuard,
	preconditions ...applicationGuard,
) (*models.Application, error) {
	var updated *models.Application
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		updated, err = s.transition(ctx, tx, id, to, authorize, preconditions...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to move application to %s: %w", to, err)
	}

	s.logger.Info("application status changed",
		zap.String("application_id", updated.ID.String()),
		zap.Stringer("status", updated.Status),
	)
	s.producer.Produce(event, updated, nil)
	return updated, nil
}

// complete rejects a submit while required answers or the resume are
// missing. Every unanswered required question is reported, and a stored
// answer that no longer fits its question counts as unanswered. A missing
// resume is reported on its own once the answers are complete.
func complete(ctx context.Context, tx *db.Repository, app *models.Application) error {
	questions, err := tx.ListQuestions(ctx, app.JobPostingID)
	if err != nil {
		return err
	}
	answers, err := tx.ListAnswers(ctx, app.ID)
	if err != nil {
		return err
	}
	byQuestion := make(map[uuid.UUID]*models.JobAppAnswer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	var missing []e.MissingQuestion
	var stale *models.JobAppQuestion
	for i, q := range questions {
		answer := byQuestion[q.ID]
		fits := answer.Blank() || q.AcceptsValue(*answer.Value)
		if q.Required && (answer.Blank() || !fits) {
			missing = append(missing, e.MissingQuestion{QuestionID: q.ID, Prompt: q.Prompt})
		} else if !fits && stale == nil {
			stale = &questions[i]
		}
	}
	if len(missing) > 0 {
		return &e.MissingQuestionsError{Questions: missing}
	}
	if stale != nil {
		return e.Invalid("answers", fmt.Sprintf("answer to %q does not fit the question", stale.Prompt))
	}

	if !app.HasResume() {
		return e.Invalid("resume", "a resume is required to submit")
	}
	return nil
}
