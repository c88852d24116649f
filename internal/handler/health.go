package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/pkg/redis"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Health handles GET /health: liveness plus dependency checks
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "up"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "down"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "down"
	}

	redisStatus := "disabled"
	if h.rdb != nil && h.rdb.IsEnabled() {
		redisStatus = "up"
		if err := h.rdb.Ping(ctx); err != nil {
			redisStatus = "down"
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if dbStatus == "down" {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"database":  dbStatus,
		"redis":     redisStatus,
		"timestamp": time.Now(),
	})
}
