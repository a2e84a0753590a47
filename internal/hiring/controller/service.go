// Package controller implements the business logic of the hiring service:
// the application lifecycle engine, the answer store, the interview
// scheduler, the catalog and questionnaire, and account management. Every
// operation receives the calling actor explicitly.
package controller

import (
	"context"
	"time"

	"github.com/gartstein/hiring/internal/hiring/auth"
	"github.com/gartstein/hiring/internal/hiring/db"
	"github.com/gartstein/hiring/internal/hiring/events"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type EventProducer interface {
	Produce(eventType events.EventType, app *models.Application, interview *models.Interview)
}

// TokenIssuer mints and verifies bearer tokens for the account operations.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (auth.TokenPair, error)
	IssueAccess(userID uuid.UUID) (string, error)
	Parse(token string, kind auth.TokenKind) (*auth.Claims, error)
}

// Repository defines the storage operations used outside of transactions.
// Multi-row units of work run against *db.Repository inside WithTransaction.
type Repository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	SetTokenCutoff(ctx context.Context, userID uuid.UUID, at time.Time) error

	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, update *models.CompanyUpdate) error
	CompanyExistsByName(ctx context.Context, name string) (bool, error)

	CreatePosting(ctx context.Context, posting *models.JobPosting) error
	GetPosting(ctx context.Context, id uuid.UUID) (*models.JobPosting, error)
	ListPostings(ctx context.Context, companyID *uuid.UUID) ([]models.JobPosting, error)
	UpdatePosting(ctx context.Context, id uuid.UUID, update *models.JobPostingUpdate) error

	GetQuestion(ctx context.Context, id uuid.UUID) (*models.JobAppQuestion, error)
	ListQuestions(ctx context.Context, postingID uuid.UUID) ([]models.JobAppQuestion, error)

	GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListApplications(ctx context.Context, scope db.ApplicationScope, filter models.ApplicationFilter) ([]models.Application, error)
	ListAnswers(ctx context.Context, applicationID uuid.UUID) ([]models.JobAppAnswer, error)

	GetInterview(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	FindInterview(ctx context.Context, applicationID uuid.UUID) (*models.Interview, error)
	ListInterviews(ctx context.Context, scope db.ApplicationScope) ([]models.Interview, error)

	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// HiringService provides every hiring operation on top of a repository, an
// event producer and a token issuer.
type HiringService struct {
	repo     Repository
	producer EventProducer
	tokens   TokenIssuer
	logger   *zap.Logger
	now      func() time.Time

	passwordCost int
}

// NewHiringService constructs a HiringService.
func NewHiringService(repo Repository, producer EventProducer, tokens TokenIssuer, logger *zap.Logger) *HiringService {
	return &HiringService{
		repo:     repo,
		producer: producer,
		tokens:   tokens,
		logger:   logger.Named("hiring_service"),
		now:      time.Now,

		passwordCost: bcrypt.DefaultCost,
	}
}
