package controller

import (
	"context"
	"fmt"

	"github.com/gartstein/hiring/internal/hiring/db"
	"github.com/gartstein/hiring/internal/hiring/export"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportApplicants renders every submitted application to a posting of the
// employer's company as an Excel workbook.
func (s *HiringService) ExportApplicants(ctx context.Context, actor models.Actor, postingID uuid.UUID) ([]byte, error) {
	posting, err := s.repo.GetPosting(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	if err := requireEmployerOf(actor, posting); err != nil {
		return nil, err
	}

	scope := db.ApplicationScope{CompanyID: &posting.CompanyID, ExcludeDraft: true}
	apps, err := s.repo.ListApplications(ctx, scope, models.ApplicationFilter{JobPostingID: &posting.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	questions, err := s.repo.ListQuestions(ctx, posting.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	rows := make([]export.ApplicantRow, 0, len(apps))
	for _, app := range apps {
		user, err := s.repo.GetUser(ctx, app.ApplicantID)
		if err != nil {
			return nil, fmt.Errorf("failed to get applicant: %w", err)
		}
		answers, err := s.repo.ListAnswers(ctx, app.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list answers: %w", err)
		}
		values := make(map[string]string, len(answers))
		for _, answer := range answers {
			if answer.Value != nil {
				values[answer.QuestionID.String()] = *answer.Value
			}
		}
		rows = append(rows, export.ApplicantRow{
			Application: app,
			Username:    user.Username,
			Email:       user.Email,
			Answers:     values,
		})
	}

	data, err := export.ApplicantsWorkbook(posting, questions, rows)
	if err != nil {
		return nil, err
	}
	s.logger.Info("applicants exported",
		zap.String("job_posting_id", posting.ID.String()),
		zap.Int("applications", len(rows)),
	)
	return data, nil
}
