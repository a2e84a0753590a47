package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusChange is a controller method that moves an application.
type statusChange func(HiringController, context.Context, models.Actor, uuid.UUID) (*models.Application, error)

func (h *Handler) apply(c *gin.Context) {
	postingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.Apply(c.Request.Context(), actor(c), postingID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	code := http.StatusOK
	if result.Created {
		code = http.StatusCreated
	}
	c.JSON(code, applyResponse{
		Application: toApplicationResponse(result.Application),
		Questions:   result.Questions,
	})
}

func (h *Handler) listApplications(c *gin.Context) {
	var filter models.ApplicationFilter
	if raw := c.Query("job_posting_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid job_posting_id")
			return
		}
		filter.JobPostingID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := models.Status(raw)
		filter.Status = &status
	}
	apps, err := h.service.ListApplications(c.Request.Context(), actor(c), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApplicationResponses(apps))
}

func (h *Handler) getApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	app, err := h.service.GetApplication(c.Request.Context(), actor(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApplicationResponse(app))
}

func (h *Handler) editApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req applicationPatch
	if !bind(c, &req) {
		return
	}
	app, err := h.service.EditApplication(c.Request.Context(), actor(c), id, req.toUpdate())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApplicationResponse(app))
}

func (h *Handler) deleteApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteApplication(c.Request.Context(), actor(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// transition serves the status-change actions, which share one shape.
func (h *Handler) transition(change statusChange) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		app, err := change(h.service, c.Request.Context(), actor(c), id)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toApplicationResponse(app))
	}
}

func (h *Handler) listAnswers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	answers, err := h.service.ListAnswers(c.Request.Context(), actor(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (h *Handler) upsertAnswer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(c, "question_id")
	if !ok {
		return
	}
	var req answerRequest
	if !bind(c, &req) {
		return
	}
	answer, err := h.service.UpsertAnswer(c.Request.Context(), actor(c), id, controllerAnswer(questionID, req.Value))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *Handler) upsertAnswers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req answersRequest
	if !bind(c, &req) {
		return
	}
	answers, err := h.service.UpsertAnswers(c.Request.Context(), actor(c), id, req.toInputs())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}
