package handler

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/internal/constants"
	"github.com/pitchcoach-app/auth-service/internal/dto"
	"github.com/pitchcoach-app/auth-service/internal/middleware"
	"github.com/pitchcoach-app/auth-service/internal/service"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"github.com/pitchcoach-app/auth-service/pkg/validation"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile handles GET /user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	user, err := h.users.GetProfile(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /user/profile. Partial update; an empty
// update set and an email conflict are both 400s with distinct codes.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid profile update request").
			Err(err).
			Log()
		respondValidationError(c, validation.MessageFromBindError(err))
		return
	}

	user, err := h.users.UpdateProfile(ctx, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword handles PUT /user/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, validation.MessageFromBindError(err))
		return
	}

	if err := h.users.ChangePassword(ctx, userID, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Password updated successfully"))
}

// ListAuditLogs handles GET /user/audit-logs, the caller's own trail
func (h *UserHandler) ListAuditLogs(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	pagination := constants.ParsePaginationParams(c)

	entries, total, err := h.users.ListAuditLogs(ctx, userID, pagination.Limit, pagination.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	pageTotal := int(math.Ceil(float64(total) / float64(pagination.Limit)))
	c.JSON(http.StatusOK, constants.BuildListResponse(total, pagination.Page, pageTotal, entries))
}
