package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/corrispettivi/registro-api/internal/application/service"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/request"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/response"
)

// AuthHandler handles operator authentication requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles operator login
// @Summary Login
// @Description Verify the operator password and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Operator password"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"token_type": "Bearer",
	})
}

// Logout ends the operator session
// @Summary Logout
// @Description End the current operator session
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Logged out successfully", nil)
}
