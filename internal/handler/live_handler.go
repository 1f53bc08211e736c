package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merolabs/meroview-backend/internal/response"
	"github.com/merolabs/meroview-backend/internal/service"
)

// LiveHandler serves the live exam state.
type LiveHandler struct {
	liveService *service.LiveService
}

// NewLiveHandler creates a LiveHandler.
func NewLiveHandler(liveService *service.LiveService) *LiveHandler {
	return &LiveHandler{liveService: liveService}
}

// GetLive godoc
// GET /api/v1/live
// Advances the simulation one tick and returns the full state. Polling
// clients are what drive the exam forward.
func (h *LiveHandler) GetLive(c *gin.Context) {
	state, err := h.liveService.Tick()
	if err != nil {
		var schemaErr *service.SchemaError
		if errors.As(err, &schemaErr) {
			response.FailWithIssues(c, http.StatusInternalServerError, response.ErrInvalidLiveState, schemaErr.Issues)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.OK(c, state)
}
