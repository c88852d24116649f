package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/internal/middleware"
)

func (r *Router) authRoutes(engine *gin.Engine) {
	auth := engine.Group("/auth")
	auth.Use(middleware.RateLimit(r.rdb, r.config.RateLimit.Request, r.config.RateLimit.Duration))
	{
		// Public routes (no authentication required)
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/refresh-token", r.authHandler.RefreshToken)

		// Logout resolves the caller when a valid token is presented
		// but must succeed without one
		auth.POST("/logout", r.authMw.OptionalAuth(), r.authHandler.Logout)
	}
}
