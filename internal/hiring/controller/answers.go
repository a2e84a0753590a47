package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/hiring/internal/hiring/db"
	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/events"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
)

// AnswerInput is one answer value keyed by its question. A nil or blank
// value clears the slot.
type AnswerInput struct {
	QuestionID uuid.UUID
	Value      *string
}

// UpsertAnswer stores the applicant's answer to one question of a draft.
func (s *HiringService) UpsertAnswer(ctx context.Context, actor models.Actor, applicationID uuid.UUID, input AnswerInput) (*models.JobAppAnswer, error) {
	answers, err := s.UpsertAnswers(ctx, actor, applicationID, []AnswerInput{input})
	if err != nil {
		return nil, err
	}
	return &answers[0], nil
}

// UpsertAnswers stores several answers of a draft in one unit of work. Either
// all of them are written or none.
func (s *HiringService) UpsertAnswers(ctx context.Context, actor models.Actor, applicationID uuid.UUID, inputs []AnswerInput) ([]models.JobAppAnswer, error) {
	if len(inputs) == 0 {
		return nil, e.Invalid("answers", "at least one answer is required")
	}

	var (
		app    *models.Application
		stored = make([]models.JobAppAnswer, 0, len(inputs))
	)
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		if app, err = tx.GetApplicationForUpdate(ctx, applicationID); err != nil {
			return err
		}
		if err := ownedBy(actor)(ctx, tx, app); err != nil {
			return err
		}
		if app.Status != models.StatusDraft {
			return e.Invalid("status", "answers can only change while the application is a draft")
		}

		for _, input := range inputs {
			answer, err := upsertAnswer(ctx, tx, app, input)
			if err != nil {
				return err
			}
			stored = append(stored, *answer)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store answers: %w", err)
	}

	s.producer.Produce(events.ApplicationUpdated, app, nil)
	return stored, nil
}

func upsertAnswer(ctx context.Context, tx *db.Repository, app *models.Application, input AnswerInput) (*models.JobAppAnswer, error) {
	question, err := tx.GetQuestion(ctx, input.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question.JobPostingID != app.JobPostingID {
		return nil, e.Invalid("question_id", "question belongs to another job posting")
	}

	value := input.Value
	if value != nil && strings.TrimSpace(*value) == "" {
		value = nil
	}
	if value != nil && !question.AcceptsValue(*value) {
		return nil, e.Invalid("value", fmt.Sprintf("not a valid answer for question %q", question.Prompt))
	}
	return tx.UpsertAnswer(ctx, app.ID, question.ID, value)
}

// ListAnswers returns the questionnaire of an application paired with the
// applicant's answers. Only the owning applicant can read them.
func (s *HiringService) ListAnswers(ctx context.Context, actor models.Actor, applicationID uuid.UUID) ([]models.QuestionAnswer, error) {
	app, err := s.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if !actor.IsApplicant() {
		return nil, e.Denied("only the applicant can read answers")
	}
	if app.ApplicantID != actor.UserID {
		return nil, fmt.Errorf("failed to get application: %w", e.ErrNotFound)
	}

	questions, err := s.repo.ListQuestions(ctx, app.JobPostingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	answers, err := s.repo.ListAnswers(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return pairAnswers(questions, answers), nil
}

func pairAnswers(questions []models.JobAppQuestion, answers []models.JobAppAnswer) []models.QuestionAnswer {
	byQuestion := make(map[uuid.UUID]*models.JobAppAnswer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}
	pairs := make([]models.QuestionAnswer, 0, len(questions))
	for _, q := range questions {
		pairs = append(pairs, models.QuestionAnswer{Question: q, Answer: byQuestion[q.ID]})
	}
	return pairs
}
