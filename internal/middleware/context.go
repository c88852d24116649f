package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	ctxutil "github.com/pitchcoach-app/auth-service/pkg/context"
)

// ContextMiddleware seeds the request context with the metadata the
// context logger and the audit recorder read back out: request ID,
// client IP, user agent, start time. It also bounds each request with
// a timeout so a disconnected client does not hold store work open.
func ContextMiddleware(module string, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(
			c.Request.Context(), c.Request, c.ClientIP(), module, c.Request.URL.Path,
		)

		ctx, cancel := ctxutil.WithTimeout(ctx, timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
