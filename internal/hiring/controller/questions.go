package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/hiring/internal/hiring/db"
	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
)

const maxPromptLength = 500

// QuestionInput describes a new questionnaire entry. A nil Position appends
// the question after the last one.
type QuestionInput struct {
	Prompt   string
	Kind     models.AnswerKind
	Required bool
	Position *int
	Options  []string
}

// CreateQuestion adds a question to a posting of the employer's company.
// Existing drafts get the new answer slot the next time they are opened.
func (s *HiringService) CreateQuestion(ctx context.Context, actor models.Actor, postingID uuid.UUID, input QuestionInput) (*models.JobAppQuestion, error) {
	posting, err := s.repo.GetPosting(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	if err := requireEmployerOf(actor, posting); err != nil {
		return nil, err
	}

	question := &models.JobAppQuestion{
		ID:           uuid.New(),
		JobPostingID: posting.ID,
		Prompt:       strings.TrimSpace(input.Prompt),
		Kind:         input.Kind,
		Required:     input.Required,
		Options:      models.QuestionOptions(input.Options),
	}
	if question.Kind == "" {
		question.Kind = models.ShortText
	}
	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if _, err := tx.GetPostingForUpdate(ctx, posting.ID); err != nil {
			return err
		}
		if input.Position != nil {
			question.Position = *input.Position
		} else {
			next, err := tx.NextQuestionPosition(ctx, posting.ID)
			if err != nil {
				return err
			}
			question.Position = next
		}
		return tx.CreateQuestion(ctx, question)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// GetQuestion retrieves a question by id.
func (s *HiringService) GetQuestion(ctx context.Context, id uuid.UUID) (*models.JobAppQuestion, error) {
	question, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

// ListQuestions returns the questionnaire of a posting in display order.
func (s *HiringService) ListQuestions(ctx context.Context, postingID uuid.UUID) ([]models.JobAppQuestion, error) {
	if _, err := s.repo.GetPosting(ctx, postingID); err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	questions, err := s.repo.ListQuestions(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// UpdateQuestion modifies a question. A question never moves to another posting.
func (s *HiringService) UpdateQuestion(ctx context.Context, actor models.Actor, id uuid.UUID, update *models.JobAppQuestionUpdate) (*models.JobAppQuestion, error) {
	current, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if update.JobPostingID != nil && *update.JobPostingID != current.JobPostingID {
		return nil, e.Invalid("job_posting_id", "a question cannot move to another job posting")
	}
	if err := s.authorizeQuestion(ctx, actor, current); err != nil {
		return nil, err
	}

	merged := *current
	if update.Prompt != nil {
		prompt := strings.TrimSpace(*update.Prompt)
		update.Prompt = &prompt
		merged.Prompt = prompt
	}
	if update.Kind != nil {
		merged.Kind = *update.Kind
		if *update.Kind != models.Choice && update.Options == nil {
			update.Options = []string{}
		}
	}
	if update.Required != nil {
		merged.Required = *update.Required
	}
	if update.Position != nil {
		merged.Position = *update.Position
	}
	if update.Options != nil {
		merged.Options = models.QuestionOptions(update.Options)
	}
	if err := validateQuestion(&merged); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.UpdateQuestion(ctx, id, update)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return s.GetQuestion(ctx, id)
}

// DeleteQuestion removes a question together with every answer given to it.
func (s *HiringService) DeleteQuestion(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	question, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get question: %w", err)
	}
	if err := s.authorizeQuestion(ctx, actor, question); err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.DeleteAnswersByQuestion(ctx, id); err != nil {
			return err
		}
		return tx.DeleteQuestion(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

func (s *HiringService) authorizeQuestion(ctx context.Context, actor models.Actor, question *models.JobAppQuestion) error {
	posting, err := s.repo.GetPosting(ctx, question.JobPostingID)
	if err != nil {
		return fmt.Errorf("failed to get job posting: %w", err)
	}
	return requireEmployerOf(actor, posting)
}

func validateQuestion(q *models.JobAppQuestion) error {
	switch {
	case q.Prompt == "" || len(q.Prompt) > maxPromptLength:
		return e.Invalid("prompt", fmt.Sprintf("must be 1 to %d characters", maxPromptLength))
	case !q.Kind.Valid():
		return e.Invalid("kind", "unknown answer kind")
	case q.Kind == models.Choice && len(q.Options) == 0:
		return e.Invalid("options", "a choice question needs at least one option")
	case q.Kind != models.Choice && len(q.Options) > 0:
		return e.Invalid("options", "only choice questions take options")
	case q.Position < 0:
		return e.Invalid("position", "must not be negative")
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return e.Invalid("options", "options must not be blank")
		}
	}
	return nil
}
