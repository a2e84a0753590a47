package db

import (
	"context"
	"errors"

	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationScope limits which applications a query can see. A nil field
// does not restrict.
type ApplicationScope struct {
	ApplicantID  *uuid.UUID
	CompanyID    *uuid.UUID
	ExcludeDraft bool
}

func (r *Repository) CreateApplication(ctx context.Context, app *models.Application) error {
	return translate(r.db.WithContext(ctx).Create(app).Error)
}

func (r *Repository) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// GetApplicationForUpdate re-reads an application inside a transaction,
// taking a row lock on dialects that have one.
func (r *Repository) GetApplicationForUpdate(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.forUpdate(r.db.WithContext(ctx)).First(&app, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// FindApplication looks up the application of an applicant for a posting.
func (r *Repository) FindApplication(ctx context.Context, applicantID, postingID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		First(&app, "applicant_id = ? AND job_posting_id = ?", applicantID, postingID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (r *Repository) ListApplications(ctx context.Context, scope ApplicationScope, filter models.ApplicationFilter) ([]models.Application, error) {
	query := r.scopedApplications(ctx, scope)
	if filter.JobPostingID != nil {
		query = query.Where("applications.job_posting_id = ?", *filter.JobPostingID)
	}
	if filter.Status != nil {
		query = query.Where("applications.status = ?", *filter.Status)
	}
	var apps []models.Application
	if err := query.Order("applications.applied_on DESC").Find(&apps).Error; err != nil {
		return nil, translate(err)
	}
	return apps, nil
}

func (r *Repository) scopedApplications(ctx context.Context, scope ApplicationScope) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Application{})
	if scope.ApplicantID != nil {
		query = query.Where("applications.applicant_id = ?", *scope.ApplicantID)
	}
	if scope.CompanyID != nil {
		query = query.
			Joins("JOIN job_postings ON job_postings.id = applications.job_posting_id").
			Where("job_postings.company_id = ?", *scope.CompanyID)
	}
	if scope.ExcludeDraft {
		query = query.Where("applications.status <> ?", models.StatusDraft)
	}
	return query
}

// UpdateApplicationFields writes the editable draft fields. Status is never
// written here.
func (r *Repository) UpdateApplicationFields(ctx context.Context, id uuid.UUID, update *models.ApplicationUpdate) error {
	columns := map[string]interface{}{}
	if update.Notes != nil {
		columns["notes"] = *update.Notes
	}
	if update.ResumeRef != nil {
		columns["resume_ref"] = *update.ResumeRef
	}
	if update.CoverLetterRef != nil {
		columns["cover_letter_ref"] = *update.CoverLetterRef
	}
	if update.JobPostingID != nil {
		columns["job_posting_id"] = *update.JobPostingID
	}
	return r.updateColumns(ctx, &models.Application{}, id, columns)
}

// CompareAndSetStatus writes the status column only if it still holds from.
// It reports whether the row was updated.
func (r *Repository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to models.Status) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *Repository) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, &models.Application{}, id)
}

// ApplicationIDsByPosting returns the ids of every application to a posting.
func (r *Repository) ApplicationIDsByPosting(ctx context.Context, postingID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("job_posting_id = ?", postingID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

// EnsureAnswer returns the answer slot of (application, question), creating
// a blank one when absent. created reports whether a row was inserted.
func (r *Repository) EnsureAnswer(ctx context.Context, applicationID, questionID uuid.UUID) (*models.JobAppAnswer, bool, error) {
	answer, err := r.GetAnswer(ctx, applicationID, questionID)
	if err == nil {
		return answer, false, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, false, err
	}

	answer = &models.JobAppAnswer{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		QuestionID:    questionID,
	}
	if err := r.db.WithContext(ctx).Create(answer).Error; err != nil {
		return nil, false, translate(err)
	}
	return answer, true, nil
}

// UpsertAnswer stores a value in the single slot of (application, question).
// A concurrent or repeated write for the same pair updates in place.
func (r *Repository) UpsertAnswer(ctx context.Context, applicationID, questionID uuid.UUID, value *string) (*models.JobAppAnswer, error) {
	answer := models.JobAppAnswer{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		QuestionID:    questionID,
		Value:         value,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "application_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&answer).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.GetAnswer(ctx, applicationID, questionID)
}

func (r *Repository) GetAnswer(ctx context.Context, applicationID, questionID uuid.UUID) (*models.JobAppAnswer, error) {
	var answer models.JobAppAnswer
	err := r.db.WithContext(ctx).
		First(&answer, "application_id = ? AND question_id = ?", applicationID, questionID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &answer, nil
}

func (r *Repository) ListAnswers(ctx context.Context, applicationID uuid.UUID) ([]models.JobAppAnswer, error) {
	var answers []models.JobAppAnswer
	if err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).Find(&answers).Error; err != nil {
		return nil, translate(err)
	}
	return answers, nil
}

func (r *Repository) CountAnswers(ctx context.Context, applicationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.JobAppAnswer{}).
		Where("application_id = ?", applicationID).
		Count(&count).Error
	return count, translate(err)
}

func (r *Repository) DeleteAnswersByApplication(ctx context.Context, applicationID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&models.JobAppAnswer{}).Error)
}

func (r *Repository) DeleteAnswersByQuestion(ctx context.Context, questionID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Delete(&models.JobAppAnswer{}).Error)
}

func (r *Repository) CreateInterview(ctx context.Context, interview *models.Interview) error {
	return translate(r.db.WithContext(ctx).Create(interview).Error)
}

func (r *Repository) GetInterview(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.WithContext(ctx).First(&interview, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &interview, nil
}

// FindInterview returns any interview of an application.
func (r *Repository) FindInterview(ctx context.Context, applicationID uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.WithContext(ctx).First(&interview, "application_id = ?", applicationID).Error; err != nil {
		return nil, translate(err)
	}
	return &interview, nil
}

func (r *Repository) ListInterviews(ctx context.Context, scope ApplicationScope) ([]models.Interview, error) {
	sub := r.scopedApplications(ctx, scope).Select("applications.id")
	var interviews []models.Interview
	err := r.db.WithContext(ctx).
		Where("application_id IN (?)", sub).
		Order("scheduled_at ASC").
		Find(&interviews).Error
	if err != nil {
		return nil, translate(err)
	}
	return interviews, nil
}

func (r *Repository) UpdateInterview(ctx context.Context, id uuid.UUID, update *models.InterviewUpdate) error {
	columns := map[string]interface{}{}
	if update.ScheduledAt != nil {
		columns["scheduled_at"] = *update.ScheduledAt
	}
	if update.Interviewer != nil {
		columns["interviewer"] = *update.Interviewer
	}
	if update.Notes != nil {
		columns["notes"] = *update.Notes
	}
	if update.Mode != nil {
		columns["mode"] = *update.Mode
	}
	return r.updateColumns(ctx, &models.Interview{}, id, columns)
}

func (r *Repository) DeleteInterview(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, &models.Interview{}, id)
}

func (r *Repository) CountInterviews(ctx context.Context, applicationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Interview{}).
		Where("application_id = ?", applicationID).
		Count(&count).Error
	return count, translate(err)
}

func (r *Repository) DeleteInterviewsByApplication(ctx context.Context, applicationID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&models.Interview{}).Error)
}
