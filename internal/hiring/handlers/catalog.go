package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) createCompany(c *gin.Context) {
	var req companyRequest
	if !bind(c, &req) {
		return
	}
	company, err := h.service.CreateCompany(c.Request.Context(), actor(c), req.toModel())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *Handler) getCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	company, err := h.service.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *Handler) updateCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req companyPatch
	if !bind(c, &req) {
		return
	}
	company, err := h.service.UpdateCompany(c.Request.Context(), actor(c), id, req.toUpdate())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *Handler) assignEmployer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req employeeRequest
	if !bind(c, &req) {
		return
	}
	profile, err := h.service.AssignEmployer(c.Request.Context(), actor(c), id, req.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) createPosting(c *gin.Context) {
	var req postingRequest
	if !bind(c, &req) {
		return
	}
	posting, err := h.service.CreatePosting(c.Request.Context(), actor(c), req.toModel())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, posting)
}

func (h *Handler) getPosting(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	posting, err := h.service.GetPosting(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, posting)
}

func (h *Handler) listPostings(c *gin.Context) {
	postings, err := h.service.ListPostings(c.Request.Context(), actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, postings)
}

func (h *Handler) updatePosting(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req postingPatch
	if !bind(c, &req) {
		return
	}
	posting, err := h.service.UpdatePosting(c.Request.Context(), actor(c), id, req.toUpdate())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, posting)
}

func (h *Handler) deletePosting(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePosting(c.Request.Context(), actor(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) exportApplicants(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, err := h.service.ExportApplicants(c.Request.Context(), actor(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="applicants-%s.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *Handler) createQuestion(c *gin.Context) {
	postingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req questionRequest
	if !bind(c, &req) {
		return
	}
	question, err := h.service.CreateQuestion(c.Request.Context(), actor(c), postingID, req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *Handler) listQuestions(c *gin.Context) {
	postingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	questions, err := h.service.ListQuestions(c.Request.Context(), postingID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *Handler) getQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	question, err := h.service.GetQuestion(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *Handler) updateQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req questionPatch
	if !bind(c, &req) {
		return
	}
	question, err := h.service.UpdateQuestion(c.Request.Context(), actor(c), id, req.toUpdate())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *Handler) deleteQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteQuestion(c.Request.Context(), actor(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
