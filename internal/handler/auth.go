package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/internal/constants"
	"github.com/pitchcoach-app/auth-service/internal/dto"
	"github.com/pitchcoach-app/auth-service/internal/middleware"
	"github.com/pitchcoach-app/auth-service/internal/service"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"github.com/pitchcoach-app/auth-service/pkg/validation"
)

type AuthHandler struct {
	sessions service.SessionManager
}

func NewAuthHandler(sessions service.SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Register handles POST /auth/register. Validation runs before any
// store access; a duplicate email comes back as a 400 with its own
// stable code.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid register request").
			Err(err).
			Log()
		respondValidationError(c, validation.MessageFromBindError(err))
		return
	}

	response, err := h.sessions.Register(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		respondValidationError(c, validation.MessageFromBindError(err))
		return
	}

	response, err := h.sessions.Login(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RefreshToken handles POST /auth/refresh-token. A missing token is a
// 400; an unknown or expired one is a 401 with a single undistinguished
// code.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "refreshToken is required")
		return
	}

	response, err := h.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout handles POST /auth/logout. It always succeeds: a missing
// body, an absent refresh token and an anonymous caller all still end
// in 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LogoutRequest
	// All fields optional; an empty or malformed body is treated as empty
	_ = c.ShouldBindJSON(&req)

	userID := middleware.UserID(c)

	if err := h.sessions.Logout(ctx, req.RefreshToken, userID); err != nil {
		// Logout never fails visibly, keep the contract even here
		logger.ErrorWithContext(ctx, "Logout flow returned an error").
			Err(err).
			Log()
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Logged out successfully"))
}
