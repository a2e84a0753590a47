package test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/hiring/internal/hiring/auth"
	"github.com/gartstein/hiring/internal/hiring/controller"
	"github.com/gartstein/hiring/internal/hiring/db"
	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/events"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const (
	kafkaBroker = "localhost:9092"
	eventsTopic = "hiring-events-it"
)

// IntegrationTestSuite runs the service against postgres and Kafka from
// docker-compose. Set HIRING_INTEGRATION=1 to enable it.
type IntegrationTestSuite struct {
	suite.Suite
	dbRepo      *db.Repository
	producer    *events.Producer
	consumer    *events.Consumer
	received    chan events.Event
	service     *controller.HiringService
	logger      *zap.Logger
	testTimeout time.Duration
	stopConsume context.CancelFunc
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() || os.Getenv("HIRING_INTEGRATION") != "1" {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.logger = zap.NewNop()
	s.testTimeout = 20 * time.Second

	var err error
	s.dbRepo, err = initializeDBWithRetry()
	if err != nil {
		s.T().Fatal("Database initialization failed:", err)
	}

	s.producer, err = initializeKafkaWithRetry(eventsTopic)
	if err != nil {
		s.T().Fatal("Kafka initialization failed:", err)
	}

	s.received = make(chan events.Event, 256)
	s.consumer = events.NewConsumer([]string{kafkaBroker}, "hiring-it-"+uuid.NewString(), eventsTopic, s.logger)
	s.consumer.RegisterHandler(func(_ context.Context, event events.Event) error {
		s.received <- event
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	s.stopConsume = cancel
	s.consumer.Start(ctx)

	tokens := auth.NewIssuer("integration-secret", time.Minute, time.Hour)
	s.service = controller.NewHiringService(s.dbRepo, s.producer, tokens, s.logger)
}

func initializeDBWithRetry() (*db.Repository, error) {
	cfg := &db.Config{
		Driver:   db.DriverPostgres,
		Host:     "localhost",
		Port:     5432,
		User:     "test",
		Password: "test",
		DBName:   "test",
		SSLMode:  "disable",
	}
	return backoff.RetryWithData(func() (*db.Repository, error) {
		return db.NewRepository(cfg)
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10))
}

func initializeKafkaWithRetry(topic string) (*events.Producer, error) {
	brokers := []string{kafkaBroker}
	producer, err := backoff.RetryWithData(func() (*events.Producer, error) {
		return events.NewProducer(brokers, zap.NewNop(), topic)
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10))
	if err != nil {
		return nil, fmt.Errorf("Kafka producer initialization failed: %w", err)
	}

	// Verify Kafka readiness using metadata instead of blocking on a read.
	err = backoff.Retry(func() error {
		conn, err := kafka.Dial("tcp", brokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()
		partitions, err := conn.ReadPartitions(topic)
		if err != nil || len(partitions) == 0 {
			return fmt.Errorf("topic %s not found", topic)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("Kafka topic check failed: %w", err)
	}
	return producer, nil
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.stopConsume != nil {
		s.stopConsume()
	}
	if s.consumer != nil {
		s.consumer.Close()
	}
	if s.producer != nil {
		s.producer.Close()
	}
	if s.dbRepo != nil {
		_ = s.dbRepo.Close()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	err := s.dbRepo.Exec(ctx, "TRUNCATE TABLE interviews, job_app_answers, applications, "+
		"job_app_questions, job_postings, profiles, users, companies CASCADE")
	if err != nil {
		s.T().Fatal("Failed to clean database:", err)
	}
}

func (s *IntegrationTestSuite) register(ctx context.Context, username string, kind models.AccountKind) models.Actor {
	identity, err := s.service.Register(ctx, controller.Registration{
		Username:    username,
		Password:    "correct-horse",
		AccountKind: kind,
	})
	require.NoError(s.T(), err)
	actor, err := s.service.LoadActor(ctx, identity.User.ID)
	require.NoError(s.T(), err)
	return actor
}

// openPosting creates an employer, its company and a posting without questions.
func (s *IntegrationTestSuite) openPosting(ctx context.Context) (models.Actor, *models.JobPosting) {
	employer := s.register(ctx, "hr-"+uuid.NewString()[:8], models.AccountEmployer)
	_, err := s.service.CreateCompany(ctx, employer, &models.Company{Name: "Acme " + uuid.NewString()[:8]})
	require.NoError(s.T(), err)
	employer, err = s.service.LoadActor(ctx, employer.UserID)
	require.NoError(s.T(), err)

	posting, err := s.service.CreatePosting(ctx, employer, &models.JobPosting{Title: "Backend Engineer", Location: "Remote"})
	require.NoError(s.T(), err)
	return employer, posting
}

// draftWithResume applies and attaches a resume so the draft can be submitted.
func (s *IntegrationTestSuite) draftWithResume(ctx context.Context, applicant models.Actor, postingID uuid.UUID) uuid.UUID {
	result, err := s.service.Apply(ctx, applicant, postingID)
	require.NoError(s.T(), err)
	resume := "resumes/" + applicant.UserID.String() + ".pdf"
	_, err = s.service.EditApplication(ctx, applicant, result.Application.ID, &models.ApplicationUpdate{ResumeRef: &resume})
	require.NoError(s.T(), err)
	return result.Application.ID
}

func (s *IntegrationTestSuite) TestLifecyclePublishesEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	employer, posting := s.openPosting(ctx)
	applicant := s.register(ctx, "alice", models.AccountApplicant)
	appID := s.draftWithResume(ctx, applicant, posting.ID)

	_, err := s.service.Submit(ctx, applicant, appID)
	require.NoError(s.T(), err)
	_, err = s.service.PromoteToInterview(ctx, employer, appID)
	require.NoError(s.T(), err)
	_, err = s.service.CreateInterview(ctx, employer, controller.InterviewInput{
		ApplicationID: appID,
		ScheduledAt:   time.Now().Add(24 * time.Hour),
		Interviewer:   "Bob",
	})
	require.NoError(s.T(), err)

	s.verifyKafkaEvent(events.ApplicationDrafted, appID)
	s.verifyKafkaEvent(events.ApplicationSubmitted, appID)
	s.verifyKafkaEvent(events.ApplicationStatusChanged, appID)
	s.verifyKafkaEvent(events.InterviewScheduled, appID)
}

func (s *IntegrationTestSuite) TestConcurrentSubmitMovesOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	_, posting := s.openPosting(ctx)
	applicant := s.register(ctx, "bob", models.AccountApplicant)
	appID := s.draftWithResume(ctx, applicant, posting.ID)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Submit(ctx, applicant, appID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			assert.True(s.T(), errIsInvalidTransitionOrConflict(err), "unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(s.T(), 1, successes)
	app, err := s.dbRepo.GetApplication(ctx, appID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusApplied, app.Status)
}

func (s *IntegrationTestSuite) TestConcurrentApplyCreatesOneDraft() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	_, posting := s.openPosting(ctx)
	applicant := s.register(ctx, "carol", models.AccountApplicant)

	const workers = 8
	results := make([]*controller.ApplyResult, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.service.Apply(ctx, applicant, posting.ID)
		}(i)
	}
	wg.Wait()

	created := 0
	for i := 0; i < workers; i++ {
		require.NoError(s.T(), errs[i])
		assert.Equal(s.T(), results[0].Application.ID, results[i].Application.ID)
		if results[i].Created {
			created++
		}
	}
	assert.Equal(s.T(), 1, created)
}

func errIsInvalidTransitionOrConflict(err error) bool {
	return errors.Is(err, e.ErrInvalidTransition) || errors.Is(err, e.ErrConflict)
}

func (s *IntegrationTestSuite) verifyKafkaEvent(eventType events.EventType, applicationID uuid.UUID) {
	timeout := time.After(60 * time.Second)
	for {
		select {
		case event := <-s.received:
			if event.Application == nil || event.Application.ID != applicationID {
				s.T().Logf("Skipping event for another application: %s", event.Type)
				continue
			}
			if event.Type != eventType {
				s.T().Logf("Skipping event %s (Expected: %s)", event.Type, eventType)
				continue
			}
			s.T().Logf("Successfully consumed event: %s, ID=%s", eventType, applicationID)
			return
		case <-timeout:
			s.T().Fatalf("Timeout: No %s event received for %s", eventType, applicationID)
		}
	}
}
