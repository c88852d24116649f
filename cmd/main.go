package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/pitchcoach-app/auth-service/config"
	"github.com/pitchcoach-app/auth-service/internal/handler"
	"github.com/pitchcoach-app/auth-service/internal/middleware"
	"github.com/pitchcoach-app/auth-service/internal/repository"
	"github.com/pitchcoach-app/auth-service/internal/router"
	"github.com/pitchcoach-app/auth-service/internal/service"
	"github.com/pitchcoach-app/auth-service/pkg/database"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"github.com/pitchcoach-app/auth-service/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config.App.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Redis backs the rate limiter; the service runs fine without it
	redisClient := redis.NewClient(redis.Config{
		Enabled:      config.Redis.Enabled,
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	}, logger.GetLogger())
	defer redisClient.Close()

	// Services. SessionManager is an interface so a managed-provider
	// backend can be swapped in here without touching the handlers.
	tokenService := service.NewTokenService(
		config.JWT.Secret, config.JWT.AccessTTL, config.JWT.RefreshTTL, refreshTokenRepo,
	)
	auditService := service.NewAuditService(auditLogRepo)
	var sessions service.SessionManager = service.NewSessionService(
		userRepo, tokenService, auditService, config.Auth.BcryptCost, config.Auth.MinPasswordLen,
	)
	userService := service.NewUserService(
		userRepo, tokenService, auditService, config.Auth.BcryptCost, config.Auth.MinPasswordLen,
	)

	// Handlers and middleware
	authHandler := handler.NewAuthHandler(sessions)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, redisClient)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	engine := router.NewRouter(
		authHandler,
		userHandler,
		healthHandler,
		authMiddleware,
		redisClient,
		config,
	).SetupRoutes()

	// Janitor: expired refresh-token rows are invisible to the refresh
	// flow already, this just keeps the table from growing unbounded
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go runTokenJanitor(janitorCtx, refreshTokenRepo, config.Auth.CleanupInterval)

	server := &http.Server{
		Addr:         ":" + config.App.Port,
		Handler:      engine,
		ReadTimeout:  config.App.Timeout,
		WriteTimeout: config.App.Timeout,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Forced shutdown", zap.Error(err))
	}
}

func runTokenJanitor(ctx context.Context, repo *repository.RefreshTokenRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := repo.CleanupExpired(ctx); err != nil {
				logger.GetLogger().Warn("Refresh token cleanup failed", zap.Error(err))
			}
		}
	}
}
