// Package auth issues JWT bearer tokens and authenticates requests on the
// HTTP and gRPC surfaces, resolving each token into the acting user.
package auth

import (
	"context"
	"fmt"
	"strings"

	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ActorLoader resolves an authenticated user into an actor.
type ActorLoader interface {
	LoadActor(ctx context.Context, userID uuid.UUID) (models.Actor, error)
}

// Authenticator turns an Authorization header into an actor.
type Authenticator struct {
	tokens *Issuer
	loader ActorLoader
}

func NewAuthenticator(tokens *Issuer, loader ActorLoader) *Authenticator {
	return &Authenticator{tokens: tokens, loader: loader}
}

// Authenticate validates a bearer access token and loads its actor. Tokens
// issued at or before the profile's last logout are rejected.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (models.Actor, error) {
	tokenString, err := bearerToken(header)
	if err != nil {
		return models.Actor{}, err
	}
	claims, err := a.tokens.Parse(tokenString, AccessToken)
	if err != nil {
		return models.Actor{}, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return models.Actor{}, err
	}
	actor, err := a.loader.LoadActor(ctx, userID)
	if err != nil {
		return models.Actor{}, err
	}
	if claims.IssuedBefore(actor.Profile.TokenInvalidBefore) {
		return models.Actor{}, fmt.Errorf("%w: token revoked", e.ErrUnauthenticated)
	}
	return actor, nil
}

// bearerToken extracts the token of a "Bearer <token>" header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: authorization header required", e.ErrUnauthenticated)
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("%w: invalid authorization format: missing Bearer prefix", e.ErrUnauthenticated)
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenString == "" {
		return "", fmt.Errorf("%w: invalid authorization format: empty token", e.ErrUnauthenticated)
	}
	return tokenString, nil
}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext returns the actor stored by the middleware or interceptor.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(models.Actor)
	return actor, ok
}
