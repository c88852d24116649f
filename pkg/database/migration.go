package database

import (
	"github.com/pitchcoach-app/auth-service/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models. Order matters:
// users first so the refresh-token and audit-log foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.AuditLog{},
	)
}
