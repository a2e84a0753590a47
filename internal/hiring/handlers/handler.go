package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gartstein/hiring/internal/hiring/auth"
	"github.com/gartstein/hiring/internal/hiring/controller"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HiringController defines the business logic interface that the HTTP
// handlers invoke.
type HiringController interface {
	Register(ctx context.Context, reg controller.Registration) (*controller.Identity, error)
	Login(ctx context.Context, username, password string) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, actor models.Actor) error
	Me(ctx context.Context, actor models.Actor) (*controller.Identity, error)

	CreateCompany(ctx context.Context, actor models.Actor, company *models.Company) (*models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateCompany(ctx context.Context, actor models.Actor, id uuid.UUID, update *models.CompanyUpdate) (*models.Company, error)
	AssignEmployer(ctx context.Context, actor models.Actor, companyID, userID uuid.UUID) (*models.Profile, error)

	CreatePosting(ctx context.Context, actor models.Actor, posting *models.JobPosting) (*models.JobPosting, error)
	GetPosting(ctx context.Context, id uuid.UUID) (*models.JobPosting, error)
	ListPostings(ctx context.Context, actor models.Actor) ([]models.JobPosting, error)
	UpdatePosting(ctx context.Context, actor models.Actor, id uuid.UUID, update *models.JobPostingUpdate) (*models.JobPosting, error)
	DeletePosting(ctx context.Context, actor models.Actor, id uuid.UUID) error
	ExportApplicants(ctx context.Context, actor models.Actor, postingID uuid.UUID) ([]byte, error)

	CreateQuestion(ctx context.Context, actor models.Actor, postingID uuid.UUID, input controller.QuestionInput) (*models.JobAppQuestion, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.JobAppQuestion, error)
	ListQuestions(ctx context.Context, postingID uuid.UUID) ([]models.JobAppQuestion, error)
	UpdateQuestion(ctx context.Context, actor models.Actor, id uuid.UUID, update *models.JobAppQuestionUpdate) (*models.JobAppQuestion, error)
	DeleteQuestion(ctx context.Context, actor models.Actor, id uuid.UUID) error

	Apply(ctx context.Context, actor models.Actor, postingID uuid.UUID) (*controller.ApplyResult, error)
	GetApplication(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error)
	ListApplications(ctx context.Context, actor models.Actor, filter models.ApplicationFilter) ([]models.Application, error)
	EditApplication(ctx context.Context, actor models.Actor, id uuid.UUID, update *models.ApplicationUpdate) (*models.Application, error)
	Submit(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error)
	Withdraw(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error)
	PromoteToInterview(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error)
	Offer(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error)
	Reject(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Application, error)
	DeleteApplication(ctx context.Context, actor models.Actor, id uuid.UUID) error

	UpsertAnswer(ctx context.Context, actor models.Actor, applicationID uuid.UUID, input controller.AnswerInput) (*models.JobAppAnswer, error)
	UpsertAnswers(ctx context.Context, actor models.Actor, applicationID uuid.UUID, inputs []controller.AnswerInput) ([]models.JobAppAnswer, error)
	ListAnswers(ctx context.Context, actor models.Actor, applicationID uuid.UUID) ([]models.QuestionAnswer, error)

	CreateInterview(ctx context.Context, actor models.Actor, input controller.InterviewInput) (*models.Interview, error)
	GetInterview(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Interview, error)
	ListInterviews(ctx context.Context, actor models.Actor) ([]models.Interview, error)
	UpdateInterview(ctx context.Context, actor models.Actor, id uuid.UUID, update *models.InterviewUpdate) (*models.Interview, error)
	DeleteInterview(ctx context.Context, actor models.Actor, id uuid.UUID) error
}

// Handler implements the HTTP API on top of a HiringController.
type Handler struct {
	service HiringController
	logger  *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(service HiringController, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("http_handler"),
	}
}

// Routes builds the gin engine. Everything except registration, login,
// refresh and the health check requires the authenticate middleware.
func (h *Handler) Routes(authenticate gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := r.Group("/v1")
	v1.POST("/auth/register", h.register)
	v1.POST("/auth/login", h.login)
	v1.POST("/auth/refresh", h.refresh)

	api := v1.Group("")
	api.Use(authenticate)
	api.POST("/auth/logout", h.logout)
	api.GET("/auth/me", h.me)

	api.POST("/companies", h.createCompany)
	api.GET("/companies/:id", h.getCompany)
	api.PATCH("/companies/:id", h.updateCompany)
	api.POST("/companies/:id/employees", h.assignEmployer)

	api.GET("/job-postings", h.listPostings)
	api.POST("/job-postings", h.createPosting)
	api.GET("/job-postings/:id", h.getPosting)
	api.PATCH("/job-postings/:id", h.updatePosting)
	api.DELETE("/job-postings/:id", h.deletePosting)
	api.POST("/job-postings/:id/apply", h.apply)
	api.GET("/job-postings/:id/applicants.xlsx", h.exportApplicants)
	api.GET("/job-postings/:id/questions", h.listQuestions)
	api.POST("/job-postings/:id/questions", h.createQuestion)

	api.GET("/questions/:id", h.getQuestion)
	api.PATCH("/questions/:id", h.updateQuestion)
	api.DELETE("/questions/:id", h.deleteQuestion)

	api.GET("/applications", h.listApplications)
	api.GET("/applications/:id", h.getApplication)
	api.PATCH("/applications/:id", h.editApplication)
	api.DELETE("/applications/:id", h.deleteApplication)
	api.POST("/applications/:id/submit", h.transition((HiringController).Submit))
	api.POST("/applications/:id/withdraw", h.transition((HiringController).Withdraw))
	api.POST("/applications/:id/promote_to_interview", h.transition((HiringController).PromoteToInterview))
	api.POST("/applications/:id/offer", h.transition((HiringController).Offer))
	api.POST("/applications/:id/reject", h.transition((HiringController).Reject))
	api.GET("/applications/:id/answers", h.listAnswers)
	api.PUT("/applications/:id/answers", h.upsertAnswers)
	api.PUT("/applications/:id/answers/:question_id", h.upsertAnswer)

	api.GET("/interviews", h.listInterviews)
	api.POST("/interviews", h.createInterview)
	api.GET("/interviews/:id", h.getInterview)
	api.PATCH("/interviews/:id", h.updateInterview)
	api.DELETE("/interviews/:id", h.deleteInterview)

	return r
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// actor returns the authenticated actor; the middleware guarantees one.
func actor(c *gin.Context) models.Actor {
	a, _ := auth.ActorFromContext(c.Request.Context())
	return a
}

// pathID parses a uuid path parameter, answering 400 when malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// bind decodes the JSON body, answering 400 when malformed.
func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
