package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/config"
	"github.com/pitchcoach-app/auth-service/internal/handler"
	"github.com/pitchcoach-app/auth-service/internal/middleware"
	"github.com/pitchcoach-app/auth-service/pkg/redis"
)

type Router struct {
	authHandler   *handler.AuthHandler
	userHandler   *handler.UserHandler
	healthHandler *handler.HealthHandler

	authMw *middleware.AuthMiddleware
	rdb    *redis.Client
	config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	health *handler.HealthHandler,
	authMw *middleware.AuthMiddleware,
	rdb *redis.Client,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		userHandler:   user,
		healthHandler: health,
		authMw:        authMw,
		rdb:           rdb,
		config:        cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.ContextMiddleware("http", r.config.App.Timeout))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())

	router.GET("/health", r.healthHandler.Health)

	r.authRoutes(router)
	r.userRoutes(router)

	return router
}
