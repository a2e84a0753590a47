package controller

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/gartstein/hiring/internal/hiring/auth"
	"github.com/gartstein/hiring/internal/hiring/db"
	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLength = 150
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

// Registration carries the fields of a new account.
type Registration struct {
	Username    string
	Email       string
	Password    string
	AccountKind models.AccountKind
}

// Identity is a user together with its profile.
type Identity struct {
	User    models.User    `json:"user"`
	Profile models.Profile `json:"profile"`
}

// Register creates a user and its profile in one unit of work.
func (s *HiringService) Register(ctx context.Context, reg Registration) (*Identity, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	if reg.AccountKind == "" {
		reg.AccountKind = models.AccountApplicant
	}
	if err := validateRegistration(reg); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &Identity{
		User: models.User{
			ID:           uuid.New(),
			Username:     reg.Username,
			Email:        reg.Email,
			PasswordHash: hash,
		},
	}
	identity.Profile = models.Profile{
		ID:          uuid.New(),
		UserID:      identity.User.ID,
		AccountKind: reg.AccountKind,
	}
	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.CreateUser(ctx, &identity.User); err != nil {
			return err
		}
		return tx.CreateProfile(ctx, &identity.Profile)
	})
	if errors.Is(err, e.ErrConflict) {
		return nil, fmt.Errorf("%w: username already taken", e.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", identity.User.ID.String()),
		zap.String("account_kind", string(reg.AccountKind)),
	)
	return identity, nil
}

func validateRegistration(reg Registration) error {
	switch {
	case reg.Username == "" || len(reg.Username) > maxUsernameLength:
		return e.Invalid("username", fmt.Sprintf("must be 1 to %d characters", maxUsernameLength))
	case len(reg.Password) < minPasswordLength || len(reg.Password) > maxPasswordLength:
		return e.Invalid("password", fmt.Sprintf("must be %d to %d characters", minPasswordLength, maxPasswordLength))
	case !reg.AccountKind.Valid():
		return e.Invalid("account_kind", "unknown account kind")
	}
	if reg.Email != "" {
		if _, err := mail.ParseAddress(reg.Email); err != nil {
			return e.Invalid("email", "not a valid email address")
		}
	}
	return nil
}

// Login checks the credentials and issues an access and refresh token.
func (s *HiringService) Login(ctx context.Context, username, password string) (auth.TokenPair, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, e.ErrNotFound) {
		return auth.TokenPair{}, fmt.Errorf("%w: invalid credentials", e.ErrUnauthenticated)
	}
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return auth.TokenPair{}, fmt.Errorf("%w: invalid credentials", e.ErrUnauthenticated)
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new access token. Refresh tokens
// issued before the last logout are rejected.
func (s *HiringService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.RefreshToken)
	if err != nil {
		return "", err
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", err
	}
	actor, err := s.LoadActor(ctx, userID)
	if err != nil {
		return "", err
	}
	if claims.IssuedBefore(actor.Profile.TokenInvalidBefore) {
		return "", fmt.Errorf("%w: token revoked", e.ErrUnauthenticated)
	}
	return s.tokens.IssueAccess(userID)
}

// Logout revokes every token the actor was issued so far.
func (s *HiringService) Logout(ctx context.Context, actor models.Actor) error {
	if err := s.repo.SetTokenCutoff(ctx, actor.UserID, s.now()); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	s.logger.Info("user logged out", zap.String("user_id", actor.UserID.String()))
	return nil
}

// Me returns the identity of the actor.
func (s *HiringService) Me(ctx context.Context, actor models.Actor) (*Identity, error) {
	user, err := s.repo.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	profile, err := s.repo.GetProfile(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &Identity{User: *user, Profile: *profile}, nil
}

// LoadActor resolves an authenticated user id into an actor. A user without
// a profile cannot act.
func (s *HiringService) LoadActor(ctx context.Context, userID uuid.UUID) (models.Actor, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, e.ErrNotFound) {
		return models.Actor{}, fmt.Errorf("%w: unknown user", e.ErrUnauthenticated)
	}
	if err != nil {
		return models.Actor{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return models.Actor{UserID: userID, Profile: *profile}, nil
}
