package middleware

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/internal/constants"
	apperrors "github.com/pitchcoach-app/auth-service/internal/errors"
	ctxutil "github.com/pitchcoach-app/auth-service/pkg/context"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"go.uber.org/zap"
)

// LoggingMiddleware routes gin's request log through Zap
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			logger.LogRequest(
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency.Milliseconds(),
				param.ClientIP,
				param.Request.UserAgent(),
			)

			if param.ErrorMessage != "" {
				logger.GetLogger().Error("Request error",
					zap.String("error", param.ErrorMessage),
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.String("client_ip", param.ClientIP),
					zap.Int("status_code", param.StatusCode),
				)
			}

			if param.Latency > 2*time.Second {
				logger.GetLogger().Warn("Slow request",
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency),
				)
			}

			return "" // Zap already emitted the entry
		},
		Output: io.Discard,
	})
}

// RecoveryMiddleware converts panics into the generic 500 body with no
// internal detail exposed.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		ctx := c.Request.Context()

		logger.ErrorWithContext(ctx, "Panic recovered").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			String("panic", fmt.Sprint(recovered)).
			Duration(ctxutil.GetDuration(ctx)).
			Log()

		c.AbortWithStatusJSON(http.StatusInternalServerError, constants.BuildErrorResponse(
			apperrors.ErrInternal.Message,
			http.StatusInternalServerError,
			apperrors.ErrInternal.Code,
		))
	})
}
