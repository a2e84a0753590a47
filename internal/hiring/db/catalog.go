package db

import (
	"context"

	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
)

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	return translate(r.db.WithContext(ctx).Create(company).Error)
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (r *Repository) UpdateCompany(ctx context.Context, id uuid.UUID, update *models.CompanyUpdate) error {
	columns := map[string]interface{}{}
	if update.Name != nil {
		columns["name"] = *update.Name
	}
	if update.Description != nil {
		columns["description"] = *update.Description
	}
	if update.Website != nil {
		columns["website"] = *update.Website
	}
	if update.Employees != nil {
		columns["employees"] = *update.Employees
	}
	if update.Type != nil {
		columns["type"] = *update.Type
	}
	return r.updateColumns(ctx, &models.Company{}, id, columns)
}

func (r *Repository) CompanyExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("name = ?", name).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) CreatePosting(ctx context.Context, posting *models.JobPosting) error {
	return translate(r.db.WithContext(ctx).Create(posting).Error)
}

func (r *Repository) GetPosting(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	var posting models.JobPosting
	if err := r.db.WithContext(ctx).First(&posting, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &posting, nil
}

// GetPostingForUpdate locks the posting so that rows referring to it cannot
// be written while it is being deleted.
func (r *Repository) GetPostingForUpdate(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	var posting models.JobPosting
	if err := r.forUpdate(r.db.WithContext(ctx)).First(&posting, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &posting, nil
}

// ListPostings returns postings newest first, optionally limited to one company.
func (r *Repository) ListPostings(ctx context.Context, companyID *uuid.UUID) ([]models.JobPosting, error) {
	query := r.db.WithContext(ctx).Order("posted_at DESC")
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	var postings []models.JobPosting
	if err := query.Find(&postings).Error; err != nil {
		return nil, translate(err)
	}
	return postings, nil
}

func (r *Repository) UpdatePosting(ctx context.Context, id uuid.UUID, update *models.JobPostingUpdate) error {
	columns := map[string]interface{}{}
	if update.Title != nil {
		columns["title"] = *update.Title
	}
	if update.Location != nil {
		columns["location"] = *update.Location
	}
	if update.WorkMode != nil {
		columns["work_mode"] = *update.WorkMode
	}
	if update.SalaryRange != nil {
		columns["salary_range"] = *update.SalaryRange
	}
	if update.CurrencyCode != nil {
		columns["currency_code"] = *update.CurrencyCode
	}
	if update.EmploymentKind != nil {
		columns["employment_kind"] = *update.EmploymentKind
	}
	if update.Description != nil {
		columns["description"] = *update.Description
	}
	return r.updateColumns(ctx, &models.JobPosting{}, id, columns)
}

func (r *Repository) DeletePosting(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, &models.JobPosting{}, id)
}

func (r *Repository) CreateQuestion(ctx context.Context, question *models.JobAppQuestion) error {
	return translate(r.db.WithContext(ctx).Create(question).Error)
}

func (r *Repository) GetQuestion(ctx context.Context, id uuid.UUID) (*models.JobAppQuestion, error) {
	var question models.JobAppQuestion
	if err := r.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &question, nil
}

// ListQuestions returns the questions of a posting in display order.
func (r *Repository) ListQuestions(ctx context.Context, postingID uuid.UUID) ([]models.JobAppQuestion, error) {
	var questions []models.JobAppQuestion
	err := r.db.WithContext(ctx).
		Where("job_posting_id = ?", postingID).
		Order("position ASC").
		Order("created_at ASC").
		Find(&questions).Error
	if err != nil {
		return nil, translate(err)
	}
	return questions, nil
}

// NextQuestionPosition returns the position after the last question of a posting.
func (r *Repository) NextQuestionPosition(ctx context.Context, postingID uuid.UUID) (int, error) {
	var maxPos *int
	err := r.db.WithContext(ctx).Model(&models.JobAppQuestion{}).
		Where("job_posting_id = ?", postingID).
		Select("MAX(position)").
		Scan(&maxPos).Error
	if err != nil {
		return 0, translate(err)
	}
	if maxPos == nil {
		return 0, nil
	}
	return *maxPos + 1, nil
}

func (r *Repository) UpdateQuestion(ctx context.Context, id uuid.UUID, update *models.JobAppQuestionUpdate) error {
	columns := map[string]interface{}{}
	if update.Prompt != nil {
		columns["prompt"] = *update.Prompt
	}
	if update.Kind != nil {
		columns["kind"] = *update.Kind
	}
	if update.Required != nil {
		columns["required"] = *update.Required
	}
	if update.Position != nil {
		columns["position"] = *update.Position
	}
	if update.Options != nil {
		columns["options"] = models.QuestionOptions(update.Options)
	}
	return r.updateColumns(ctx, &models.JobAppQuestion{}, id, columns)
}

func (r *Repository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, &models.JobAppQuestion{}, id)
}

// DeleteQuestionsByPosting removes every question of a posting.
func (r *Repository) DeleteQuestionsByPosting(ctx context.Context, postingID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).
		Where("job_posting_id = ?", postingID).
		Delete(&models.JobAppQuestion{}).Error)
}

func (r *Repository) updateColumns(ctx context.Context, model interface{}, id uuid.UUID, columns map[string]interface{}) error {
	if len(columns) == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return translate(err)
		}
		if count == 0 {
			return e.ErrNotFound
		}
		return nil
	}
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) deleteByID(ctx context.Context, model interface{}, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
