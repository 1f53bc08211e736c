package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merolabs/meroview-backend/internal/model"
	"github.com/merolabs/meroview-backend/internal/response"
	"github.com/merolabs/meroview-backend/internal/service"
	"github.com/merolabs/meroview-backend/internal/validator"
)

// ProfileHandler serves the teacher profile.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile godoc
// GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	response.OK(c, h.profileService.Get())
}

// UpdateProfile godoc
// PUT /api/v1/profile
// Merges a partial payload into the stored profile and returns the result.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req model.ProfileUpdateRequest
	if issues := validator.Bind(c, &req); issues != nil {
		response.FailWithIssues(c, http.StatusBadRequest, response.ErrInvalidPayload, issues)
		return
	}

	merged, err := h.profileService.Update(req)
	if err != nil {
		var schemaErr *service.SchemaError
		if errors.As(err, &schemaErr) {
			response.FailWithIssues(c, http.StatusInternalServerError, response.ErrInvalidRecord, schemaErr.Issues)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.OK(c, merged)
}
