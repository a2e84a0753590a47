package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gartstein/hiring/internal/hiring/auth"
	"github.com/gartstein/hiring/internal/hiring/db"
	"github.com/gartstein/hiring/internal/hiring/events"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

// recordingProducer is a test double for the Kafka producer.
type recordingProducer struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Type        events.EventType
	Application models.Application
	Interview   *models.Interview
}

func (p *recordingProducer) Produce(eventType events.EventType, app *models.Application, interview *models.Interview) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Application: *app, Interview: interview})
}

func (p *recordingProducer) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.EventType, 0, len(p.events))
	for _, ev := range p.events {
		types = append(types, ev.Type)
	}
	return types
}

type fixture struct {
	t        *testing.T
	ctx      context.Context
	svc      *HiringService
	repo     *db.Repository
	producer *recordingProducer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := db.NewSQLite(":memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = repo.Close() })

	producer := &recordingProducer{}
	tokens := auth.NewIssuer("test-secret", time.Hour, 24*time.Hour)
	svc := NewHiringService(repo, producer, tokens, zaptest.NewLogger(t))
	svc.passwordCost = bcrypt.MinCost

	return &fixture{t: t, ctx: context.Background(), svc: svc, repo: repo, producer: producer}
}

func (f *fixture) register(username string, kind models.AccountKind) models.Actor {
	f.t.Helper()
	identity, err := f.svc.Register(f.ctx, Registration{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "correct-horse",
		AccountKind: kind,
	})
	require.NoError(f.t, err)
	actor, err := f.svc.LoadActor(f.ctx, identity.User.ID)
	require.NoError(f.t, err)
	return actor
}

func (f *fixture) applicant(username string) models.Actor {
	return f.register(username, models.AccountApplicant)
}

// employer registers an employer and a company it belongs to.
func (f *fixture) employer(username, company string) models.Actor {
	f.t.Helper()
	actor := f.register(username, models.AccountEmployer)
	_, err := f.svc.CreateCompany(f.ctx, actor, &models.Company{Name: company})
	require.NoError(f.t, err)
	actor, err = f.svc.LoadActor(f.ctx, actor.UserID)
	require.NoError(f.t, err)
	return actor
}

func (f *fixture) posting(employer models.Actor, title string) *models.JobPosting {
	f.t.Helper()
	posting, err := f.svc.CreatePosting(f.ctx, employer, &models.JobPosting{Title: title, Location: "Remote"})
	require.NoError(f.t, err)
	return posting
}

func (f *fixture) question(employer models.Actor, postingID uuid.UUID, prompt string, kind models.AnswerKind, required bool, options ...string) *models.JobAppQuestion {
	f.t.Helper()
	q, err := f.svc.CreateQuestion(f.ctx, employer, postingID, QuestionInput{
		Prompt:   prompt,
		Kind:     kind,
		Required: required,
		Options:  options,
	})
	require.NoError(f.t, err)
	return q
}

func (f *fixture) apply(applicant models.Actor, postingID uuid.UUID) *ApplyResult {
	f.t.Helper()
	result, err := f.svc.Apply(f.ctx, applicant, postingID)
	require.NoError(f.t, err)
	return result
}

// submitted applies with a resume and submits. The posting must have no
// required questions.
func (f *fixture) submitted(applicant models.Actor, postingID uuid.UUID) *models.Application {
	f.t.Helper()
	result := f.apply(applicant, postingID)
	resume := "resumes/" + applicant.UserID.String() + ".pdf"
	_, err := f.svc.EditApplication(f.ctx, applicant, result.Application.ID, &models.ApplicationUpdate{ResumeRef: &resume})
	require.NoError(f.t, err)
	app, err := f.svc.Submit(f.ctx, applicant, result.Application.ID)
	require.NoError(f.t, err)
	return app
}

func (f *fixture) status(id uuid.UUID) models.Status {
	f.t.Helper()
	app, err := f.repo.GetApplication(f.ctx, id)
	require.NoError(f.t, err)
	return app.Status
}

func strPtr(s string) *string { return &s }
