package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merolabs/meroview-backend/internal/model"
	"github.com/merolabs/meroview-backend/internal/response"
	"github.com/merolabs/meroview-backend/internal/service"
)

// StudentHandler serves the students list.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// ListStudents godoc
// GET /api/v1/students?q=&status=
func (h *StudentHandler) ListStudents(c *gin.Context) {
	query := model.ListQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
	}
	if query.Status != "" && !model.ValidStudentStatus(query.Status) {
		response.Fail(c, http.StatusBadRequest, response.ErrBadQuery)
		return
	}

	resp, err := h.studentService.List(query)
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
