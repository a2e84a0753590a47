package handlers

import (
	"time"

	"github.com/gartstein/hiring/internal/hiring/controller"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
)

type registerRequest struct {
	Username    string             `json:"username" binding:"required"`
	Email       string             `json:"email"`
	Password    string             `json:"password" binding:"required"`
	AccountKind models.AccountKind `json:"account_kind"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type companyRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Website     string             `json:"website"`
	Employees   int                `json:"employees"`
	Type        models.CompanyType `json:"type"`
}

type companyPatch struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Website     *string             `json:"website"`
	Employees   *int                `json:"employees"`
	Type        *models.CompanyType `json:"type"`
}

type employeeRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

type postingRequest struct {
	Title          string                `json:"title"`
	Location       string                `json:"location"`
	WorkMode       models.WorkMode       `json:"work_mode"`
	SalaryRange    *string               `json:"salary_range"`
	CurrencyCode   string                `json:"currency_code"`
	EmploymentKind models.EmploymentKind `json:"employment_kind"`
	Description    string                `json:"description"`
}

type postingPatch struct {
	Title          *string                `json:"title"`
	Location       *string                `json:"location"`
	WorkMode       *models.WorkMode       `json:"work_mode"`
	SalaryRange    *string                `json:"salary_range"`
	CurrencyCode   *string                `json:"currency_code"`
	EmploymentKind *models.EmploymentKind `json:"employment_kind"`
	Description    *string                `json:"description"`
}

type questionRequest struct {
	Prompt   string            `json:"prompt"`
	Kind     models.AnswerKind `json:"kind"`
	Required bool              `json:"required"`
	Position *int              `json:"position"`
	Options  []string          `json:"options"`
}

type questionPatch struct {
	JobPostingID *uuid.UUID         `json:"job_posting_id"`
	Prompt       *string            `json:"prompt"`
	Kind         *models.AnswerKind `json:"kind"`
	Required     *bool              `json:"required"`
	Position     *int               `json:"position"`
	Options      []string           `json:"options"`
}

type applicationPatch struct {
	Notes          *string    `json:"notes"`
	ResumeRef      *string    `json:"resume_ref"`
	CoverLetterRef *string    `json:"cover_letter_ref"`
	JobPostingID   *uuid.UUID `json:"job_posting_id"`
}

type answerRequest struct {
	Value *string `json:"value"`
}

type answersRequest struct {
	Answers []struct {
		QuestionID uuid.UUID `json:"question_id"`
		Value      *string   `json:"value"`
	} `json:"answers" binding:"required"`
}

type interviewRequest struct {
	ApplicationID uuid.UUID            `json:"application_id" binding:"required"`
	ScheduledAt   time.Time            `json:"scheduled_at"`
	Interviewer   string               `json:"interviewer"`
	Notes         string               `json:"notes"`
	Mode          models.InterviewMode `json:"mode"`
}

type interviewPatch struct {
	ApplicationID *uuid.UUID            `json:"application_id"`
	ScheduledAt   *time.Time            `json:"scheduled_at"`
	Interviewer   *string               `json:"interviewer"`
	Notes         *string               `json:"notes"`
	Mode          *models.InterviewMode `json:"mode"`
}

// applicationResponse adds the readable status name to an application.
type applicationResponse struct {
	models.Application
	StatusLabel string `json:"status_label"`
}

type applyResponse struct {
	Application applicationResponse     `json:"application"`
	Questions   []models.QuestionAnswer `json:"questions"`
}

func (r *companyRequest) toModel() *models.Company {
	return &models.Company{
		Name:        r.Name,
		Description: r.Description,
		Website:     r.Website,
		Employees:   r.Employees,
		Type:        r.Type,
	}
}

func (p *companyPatch) toUpdate() *models.CompanyUpdate {
	return &models.CompanyUpdate{
		Name:        p.Name,
		Description: p.Description,
		Website:     p.Website,
		Employees:   p.Employees,
		Type:        p.Type,
	}
}

func (r *postingRequest) toModel() *models.JobPosting {
	return &models.JobPosting{
		Title:          r.Title,
		Location:       r.Location,
		WorkMode:       r.WorkMode,
		SalaryRange:    r.SalaryRange,
		CurrencyCode:   r.CurrencyCode,
		EmploymentKind: r.EmploymentKind,
		Description:    r.Description,
	}
}

func (p *postingPatch) toUpdate() *models.JobPostingUpdate {
	return &models.JobPostingUpdate{
		Title:          p.Title,
		Location:       p.Location,
		WorkMode:       p.WorkMode,
		SalaryRange:    p.SalaryRange,
		CurrencyCode:   p.CurrencyCode,
		EmploymentKind: p.EmploymentKind,
		Description:    p.Description,
	}
}

func (r *questionRequest) toInput() controller.QuestionInput {
	return controller.QuestionInput{
		Prompt:   r.Prompt,
		Kind:     r.Kind,
		Required: r.Required,
		Position: r.Position,
		Options:  r.Options,
	}
}

func (p *questionPatch) toUpdate() *models.JobAppQuestionUpdate {
	return &models.JobAppQuestionUpdate{
		JobPostingID: p.JobPostingID,
		Prompt:       p.Prompt,
		Kind:         p.Kind,
		Required:     p.Required,
		Position:     p.Position,
		Options:      p.Options,
	}
}

func (p *applicationPatch) toUpdate() *models.ApplicationUpdate {
	return &models.ApplicationUpdate{
		Notes:          p.Notes,
		ResumeRef:      p.ResumeRef,
		CoverLetterRef: p.CoverLetterRef,
		JobPostingID:   p.JobPostingID,
	}
}

func (r *answersRequest) toInputs() []controller.AnswerInput {
	inputs := make([]controller.AnswerInput, 0, len(r.Answers))
	for _, a := range r.Answers {
		inputs = append(inputs, controller.AnswerInput{QuestionID: a.QuestionID, Value: a.Value})
	}
	return inputs
}

func (r *interviewRequest) toInput() controller.InterviewInput {
	return controller.InterviewInput{
		ApplicationID: r.ApplicationID,
		ScheduledAt:   r.ScheduledAt,
		Interviewer:   r.Interviewer,
		Notes:         r.Notes,
		Mode:          r.Mode,
	}
}

func (p *interviewPatch) toUpdate() *models.InterviewUpdate {
	return &models.InterviewUpdate{
		ApplicationID: p.ApplicationID,
		ScheduledAt:   p.ScheduledAt,
		Interviewer:   p.Interviewer,
		Notes:         p.Notes,
		Mode:          p.Mode,
	}
}

func toApplicationResponse(app *models.Application) applicationResponse {
	return applicationResponse{Application: *app, StatusLabel: app.Status.String()}
}

func toApplicationResponses(apps []models.Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, toApplicationResponse(&apps[i]))
	}
	return out
}

func controllerAnswer(questionID uuid.UUID, value *string) controller.AnswerInput {
	return controller.AnswerInput{QuestionID: questionID, Value: value}
}
