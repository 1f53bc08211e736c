package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merolabs/meroview-backend/internal/model"
	"github.com/merolabs/meroview-backend/internal/response"
	"github.com/merolabs/meroview-backend/internal/service"
)

// ExamHandler serves the exams list.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates an ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// ListExams godoc
// GET /api/v1/exams?q=&status=
// An unknown status value is rejected before any data access.
func (h *ExamHandler) ListExams(c *gin.Context) {
	query := model.ListQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
	}
	if query.Status != "" && !model.ValidExamStatus(query.Status) {
		response.Fail(c, http.StatusBadRequest, response.ErrBadQuery)
		return
	}

	resp, err := h.examService.List(query)
	if err != nil {
		var schemaErr *service.SchemaError
		if errors.As(err, &schemaErr) {
			response.FailWithIssues(c, http.StatusInternalServerError, response.ErrInvalidRecord, schemaErr.Issues)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.OK(c, resp)
}
