package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createInterview(c *gin.Context) {
	var req interviewRequest
	if !bind(c, &req) {
		return
	}
	interview, err := h.service.CreateInterview(c.Request.Context(), actor(c), req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, interview)
}

func (h *Handler) getInterview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	interview, err := h.service.GetInterview(c.Request.Context(), actor(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, interview)
}

func (h *Handler) listInterviews(c *gin.Context) {
	interviews, err := h.service.ListInterviews(c.Request.Context(), actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, interviews)
}

func (h *Handler) updateInterview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req interviewPatch
	if !bind(c, &req) {
		return
	}
	interview, err := h.service.UpdateInterview(c.Request.Context(), actor(c), id, req.toUpdate())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, interview)
}

func (h *Handler) deleteInterview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteInterview(c.Request.Context(), actor(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
