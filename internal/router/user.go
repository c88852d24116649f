package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(engine *gin.Engine) {
	user := engine.Group("/user")
	user.Use(r.authMw.RequireAuth())
	{
		user.GET("/profile", r.userHandler.GetProfile)
		user.PUT("/profile", r.userHandler.UpdateProfile)
		user.PUT("/change-password", r.userHandler.ChangePassword)
		user.GET("/audit-logs", r.userHandler.ListAuditLogs)
	}
}
