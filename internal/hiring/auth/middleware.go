package auth

import (
	"errors"
	"net/http"

	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gin-gonic/gin"
)

// Middleware rejects requests without a valid access token and stores the
// actor in the request context. Failures to load the actor are server errors.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := a.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if !errors.Is(err, e.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		c.Next()
	}
}
