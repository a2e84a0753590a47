package db

import (
	"context"
	"errors"
	"testing"
	"time"

	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	repo, err := NewSQLite(":memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func strPtr(s string) *string { return &s }

func seedPosting(t *testing.T, repo *Repository) (*models.Company, *models.JobPosting) {
	ctx := context.Background()
	company := &models.Company{ID: uuid.New(), Name: "Acme " + uuid.NewString()[:8], Type: models.Corporations}
	require.NoError(t, repo.CreateCompany(ctx, company))

	posting := &models.JobPosting{
		ID:             uuid.New(),
		CompanyID:      company.ID,
		Title:          "Engineer",
		WorkMode:       models.WorkRemote,
		EmploymentKind: models.FullTime,
		CurrencyCode:   "USD",
		PostedAt:       time.Now(),
	}
	require.NoError(t, repo.CreatePosting(ctx, posting))
	return company, posting
}

func seedApplication(t *testing.T, repo *Repository, postingID uuid.UUID) *models.Application {
	app := &models.Application{
		ID:           uuid.New(),
		ApplicantID:  uuid.New(),
		JobPostingID: postingID,
		AppliedOn:    time.Now(),
		Status:       models.StatusDraft,
	}
	require.NoError(t, repo.CreateApplication(context.Background(), app))
	return app
}

func TestCreateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := &models.Company{ID: uuid.New(), Name: "Test Company"}
	require.NoError(t, repo.CreateCompany(ctx, company))

	retrieved, err := repo.GetCompany(ctx, company.ID)
	assert.NoError(t, err)
	assert.Equal(t, company.Name, retrieved.Name)

	dup := &models.Company{ID: uuid.New(), Name: "Test Company"}
	assert.ErrorIs(t, repo.CreateCompany(ctx, dup), e.ErrConflict, "company names are unique")
}

func TestGetCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetCompany(context.Background(), uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestUpdateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := &models.Company{ID: uuid.New(), Name: "Old Name"}
	require.NoError(t, repo.CreateCompany(ctx, company))

	require.NoError(t, repo.UpdateCompany(ctx, company.ID, &models.CompanyUpdate{Name: strPtr("New Name")}))

	updated, err := repo.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)

	err = repo.UpdateCompany(ctx, uuid.New(), &models.CompanyUpdate{Name: strPtr("Nobody")})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestCompanyExistsByName(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	exists, err := repo.CompanyExistsByName(ctx, "Non-existent")
	assert.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.CreateCompany(ctx, &models.Company{ID: uuid.New(), Name: "Existing Company"}))

	exists, err = repo.CompanyExistsByName(ctx, "Existing Company")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestListPostingsNewestFirst(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company, older := seedPosting(t, repo)
	newer := &models.JobPosting{
		ID:        uuid.New(),
		CompanyID: company.ID,
		Title:     "Later",
		PostedAt:  older.PostedAt.Add(time.Hour),
	}
	require.NoError(t, repo.CreatePosting(ctx, newer))
	_, foreign := seedPosting(t, repo)

	all, err := repo.ListPostings(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	own, err := repo.ListPostings(ctx, &company.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, newer.ID, own[0].ID)
	assert.Equal(t, older.ID, own[1].ID)
	assert.NotContains(t, []uuid.UUID{own[0].ID, own[1].ID}, foreign.ID)
}

func TestPostingOwnerIsImmutable(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	_, posting := seedPosting(t, repo)
	require.NoError(t, repo.UpdatePosting(ctx, posting.ID, &models.JobPostingUpdate{Title: strPtr("Staff Engineer")}))

	got, err := repo.GetPosting(ctx, posting.ID)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", got.Title)
	assert.Equal(t, posting.CompanyID, got.CompanyID)
	assert.WithinDuration(t, posting.PostedAt, got.PostedAt, time.Second)
}

func TestQuestionsOrderedByPosition(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	_, posting := seedPosting(t, repo)

	pos, err := repo.NextQuestionPosition(ctx, posting.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	second := &models.JobAppQuestion{ID: uuid.New(), JobPostingID: posting.ID, Prompt: "second", Kind: models.ShortText, Position: 1}
	first := &models.JobAppQuestion{ID: uuid.New(), JobPostingID: posting.ID, Prompt: "first", Kind: models.Choice, Position: 0,
		Options: models.QuestionOptions([]string{"a", "b"})}
	require.NoError(t, repo.CreateQuestion(ctx, second))
	require.NoError(t, repo.CreateQuestion(ctx, first))

	questions, err := repo.ListQuestions(ctx, posting.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "first", questions[0].Prompt)
	assert.Equal(t, []string{"a", "b"}, []string(questions[0].Options))

	pos, err = repo.NextQuestionPosition(ctx, posting.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestApplicationUniquePerApplicantAndPosting(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	_, posting := seedPosting(t, repo)
	app := seedApplication(t, repo, posting.ID)

	dup := &models.Application{
		ID:           uuid.New(),
		ApplicantID:  app.ApplicantID,
		JobPostingID: posting.ID,
		AppliedOn:    time.Now(),
		Status:       models.StatusDraft,
	}
	err := repo.CreateApplication(ctx, dup)
	assert.ErrorIs(t, err, e.ErrConflict)

	found, err := repo.FindApplication(ctx, app.ApplicantID, posting.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, found.ID)
}

func TestCompareAndSetStatus(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	_, posting := seedPosting(t, repo)
	app := seedApplication(t, repo, posting.ID)

	ok, err := repo.CompareAndSetStatus(ctx, app.ID, models.StatusApplied, models.StatusInterview)
	require.NoError(t, err)
	assert.False(t, ok, "stale from status must not write")

	ok, err = repo.CompareAndSetStatus(ctx, app.ID, models.StatusDraft, models.StatusApplied)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, got.Status)
}

func TestListApplicationsScope(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company, posting := seedPosting(t, repo)
	_, otherPosting := seedPosting(t, repo)

	mine := seedApplication(t, repo, posting.ID)
	seedApplication(t, repo, posting.ID)
	seedApplication(t, repo, otherPosting.ID)

	byApplicant, err := repo.ListApplications(ctx, ApplicationScope{ApplicantID: &mine.ApplicantID}, models.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, byApplicant, 1)
	assert.Equal(t, mine.ID, byApplicant[0].ID)

	byCompany, err := repo.ListApplications(ctx, ApplicationScope{CompanyID: &company.ID}, models.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, byCompany, 2)

	draft := models.StatusDraft
	filtered, err := repo.ListApplications(ctx, ApplicationScope{}, models.ApplicationFilter{JobPostingID: &otherPosting.ID, Status: &draft})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestAnswersSingleSlotPerQuestion(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	_, posting := seedPosting(t, repo)
	app := seedApplication(t, repo, posting.ID)
	question := &models.JobAppQuestion{ID: uuid.New(), JobPostingID: posting.ID, Prompt: "Why?", Kind: models.ShortText}
	require.NoError(t, repo.CreateQuestion(ctx, question))

	blank, created, err := repo.EnsureAnswer(ctx, app.ID, question.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, blank.Blank())

	again, created, err := repo.EnsureAnswer(ctx, app.ID, question.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, blank.ID, again.ID)

	first, err := repo.UpsertAnswer(ctx, app.ID, question.ID, strPtr("one"))
	require.NoError(t, err)
	second, err := repo.UpsertAnswer(ctx, app.ID, question.ID, strPtr("two"))
	require.NoError(t, err)

	assert.Equal(t, blank.ID, first.ID)
	assert.Equal(t, blank.ID, second.ID)
	assert.Equal(t, "two", *second.Value)

	count, err := repo.CountAnswers(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInterviewUniquePerApplication(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company, posting := seedPosting(t, repo)
	app := seedApplication(t, repo, posting.ID)

	interview := &models.Interview{ID: uuid.New(), ApplicationID: app.ID, ScheduledAt: time.Now(), Interviewer: "Jane", Mode: models.InterviewVideo}
	require.NoError(t, repo.CreateInterview(ctx, interview))

	dup := &models.Interview{ID: uuid.New(), ApplicationID: app.ID, ScheduledAt: time.Now(), Interviewer: "Joe", Mode: models.InterviewPhone}
	assert.ErrorIs(t, repo.CreateInterview(ctx, dup), e.ErrConflict)

	listed, err := repo.ListInterviews(ctx, ApplicationScope{CompanyID: &company.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, interview.ID, listed[0].ID)

	require.NoError(t, repo.DeleteInterview(ctx, interview.ID))
	count, err := repo.CountInterviews(ctx, app.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.ErrorIs(t, repo.DeleteInterview(ctx, interview.ID), e.ErrNotFound)
}

func TestProfileMutations(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Username: "employer"}
	require.NoError(t, repo.CreateUser(ctx, user))
	require.NoError(t, repo.CreateProfile(ctx, &models.Profile{ID: uuid.New(), UserID: user.ID, AccountKind: models.AccountEmployer}))

	companyID := uuid.New()
	require.NoError(t, repo.SetProfileCompany(ctx, user.ID, companyID))
	cutoff := time.Now().Truncate(time.Second)
	require.NoError(t, repo.SetTokenCutoff(ctx, user.ID, cutoff))

	profile, err := repo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.CompanyID)
	assert.Equal(t, companyID, *profile.CompanyID)
	require.NotNil(t, profile.TokenInvalidBefore)
	assert.WithinDuration(t, cutoff, *profile.TokenInvalidBefore, time.Second)

	assert.ErrorIs(t, repo.SetProfileCompany(ctx, uuid.New(), companyID), e.ErrNotFound)
}

// TestWithTransaction ensures transactions commit and roll back as a unit.
func TestWithTransaction(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(txRepo *Repository) error {
		return txRepo.CreateCompany(ctx, &models.Company{ID: uuid.New(), Name: "Transactional Company"})
	})
	assert.NoError(t, err)

	exists, _ := repo.CompanyExistsByName(ctx, "Transactional Company")
	assert.True(t, exists, "Company should exist after transaction")

	boom := errors.New("boom")
	err = repo.WithTransaction(ctx, func(txRepo *Repository) error {
		if err := txRepo.CreateCompany(ctx, &models.Company{ID: uuid.New(), Name: "Rolled Back"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, _ = repo.CompanyExistsByName(ctx, "Rolled Back")
	assert.False(t, exists, "Company should not exist after rollback")
}

func TestNewRepositoryUnknownDriver(t *testing.T) {
	_, err := NewRepository(&Config{Driver: "oracle"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}
