package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHandler_WriteError(t *testing.T) {
	h := NewHandler(nil, zaptest.NewLogger(t))
	interviewID := uuid.New()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKey  string
	}{
		{"missing questions", &e.MissingQuestionsError{Questions: []e.MissingQuestion{{QuestionID: uuid.New(), Prompt: "Why?"}}}, http.StatusBadRequest, "missing_questions"},
		{"transition", fmt.Errorf("wrapped: %w", &e.TransitionError{From: "Offer", To: "Draft"}), http.StatusBadRequest, "from"},
		{"field", e.Invalid("value", "not a number"), http.StatusBadRequest, "field"},
		{"invalid input", fmt.Errorf("%w: bad", e.ErrInvalidInput), http.StatusBadRequest, "error"},
		{"unauthenticated", e.ErrUnauthenticated, http.StatusUnauthorized, "error"},
		{"denied", e.Denied("employers only"), http.StatusForbidden, "error"},
		{"not found", fmt.Errorf("failed to load: %w", e.ErrNotFound), http.StatusNotFound, "error"},
		{"typed conflict", &e.ConflictError{Resource: "interview", ID: interviewID}, http.StatusConflict, "id"},
		{"conflict", fmt.Errorf("%w: username already taken", e.ErrConflict), http.StatusConflict, "error"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			h.writeError(c, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, tt.wantKey)
		})
	}
}

func TestHandler_WriteErrorHidesInternals(t *testing.T) {
	h := NewHandler(nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	h.writeError(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}
