package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/internal/constants"
	apperrors "github.com/pitchcoach-app/auth-service/internal/errors"
	"github.com/pitchcoach-app/auth-service/internal/service"
	ctxutil "github.com/pitchcoach-app/auth-service/pkg/context"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
)

// AuthMiddleware is the request gate for protected routes. It verifies
// the bearer token's signature and expiry and nothing else: no store
// lookup, claims are trusted as-is. That stateless check is why access
// tokens are short-lived.
type AuthMiddleware struct {
	tokens *service.TokenService
}

func NewAuthMiddleware(tokens *service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token. An
// expired token gets its own code so clients branch to the refresh
// flow instead of a login redirect.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWith(c, apperrors.ErrAuthRequired)
			return
		}

		userID, err := m.tokens.VerifyAccessToken(token)
		if err != nil {
			if !errors.Is(err, apperrors.ErrTokenExpired) {
				logger.WarnWithContext(c.Request.Context(), "Rejected invalid access token").
					String("path", c.Request.URL.Path).
					Err(err).
					Log()
			}
			abortWith(c, err)
			return
		}

		attachUser(c, userID)
		c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a valid bearer
// token is present but lets the request through either way. Logout
// uses it: the flow must succeed anonymously, yet the audit entry
// needs the user ID when one is provable.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if userID, err := m.tokens.VerifyAccessToken(token); err == nil {
				attachUser(c, userID)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != constants.BearerPrefix || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func attachUser(c *gin.Context, userID string) {
	c.Set(constants.GinKeyUserID, userID)
	c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), userID))
}

func abortWith(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	c.AbortWithStatusJSON(status, constants.BuildErrorResponse(
		apperrors.GetErrorMessage(err),
		status,
		apperrors.GetErrorCode(err),
	))
}

// UserID returns the authenticated user ID attached by RequireAuth or
// OptionalAuth, empty when the request is anonymous.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(constants.GinKeyUserID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
