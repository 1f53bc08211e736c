package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merolabs/meroview-backend/internal/auth"
	"github.com/merolabs/meroview-backend/internal/model"
	"github.com/merolabs/meroview-backend/internal/response"
	"github.com/merolabs/meroview-backend/internal/validator"
)

// AuthHandler serves the mock login.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// POST /api/v1/auth/login
// Trust-on-first-use: any valid payload yields a session user and token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if issues := validator.Bind(c, &req); issues != nil {
		response.FailWithIssues(c, http.StatusBadRequest, response.ErrInvalidPayload, issues)
		return
	}

	user, token, err := h.authService.Login(req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.OK(c, model.LoginResponse{User: user, Token: token})
}
