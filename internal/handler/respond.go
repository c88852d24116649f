package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/internal/constants"
	apperrors "github.com/pitchcoach-app/auth-service/internal/errors"
)

// respondError maps a domain error to its status and the standard
// error body. Anything outside the taxonomy becomes the generic 500.
func respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	message := apperrors.GetErrorMessage(err)
	if status == http.StatusInternalServerError {
		message = apperrors.ErrInternal.Message
	}
	c.JSON(status, constants.BuildErrorResponse(message, status, apperrors.GetErrorCode(err)))
}

// respondValidationError reports a binding failure with the stable
// VALIDATION_ERROR code.
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
		message,
		http.StatusBadRequest,
		apperrors.ErrValidation.Code,
	))
}
