package handlers

import (
	"errors"
	"net/http"

	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps domain errors to HTTP status codes and JSON bodies.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		missing    *e.MissingQuestionsError
		transition *e.TransitionError
		field      *e.FieldError
		conflict   *e.ConflictError
	)
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "required questions are unanswered",
			"missing_questions": missing.Questions,
		})
	case errors.As(err, &transition):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": transition.Error(),
			"from":  transition.From,
			"to":    transition.To,
		})
	case errors.As(err, &field):
		c.JSON(http.StatusBadRequest, gin.H{"error": field.Error(), "field": field.Field})
	case errors.Is(err, e.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":    conflict.Error(),
			"resource": conflict.Resource,
			"id":       conflict.ID,
		})
	case errors.Is(err, e.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Internal server error",
			zap.Error(err),
			zap.String("path", c.FullPath()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// badRequest reports a malformed request body or parameter.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
