package repository

import (
	"context"
	"time"

	"github.com/pitchcoach-app/auth-service/internal/model"
	ctxutil "github.com/pitchcoach-app/auth-service/pkg/context"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create appends an audit row. Entries are never updated or deleted by
// the application.
func (r *AuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	ctx = ctxutil.WithModule(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to append audit log entry").
			String("event_type", string(entry.EventType)).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// ListByUser returns a page of a user's audit trail, newest first
func (r *AuditLogRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.AuditLog, int64, error) {
	ctx = ctxutil.WithModule(ctx, "repository", "ListByUser")

	var entries []model.AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&model.AuditLog{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count audit log entries").
			String("user_id", userID).
			Err(err).
			Log()
		return nil, 0, err
	}

	// id breaks ties between entries created in the same instant
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch audit log entries").
			String("user_id", userID).
			Err(err).
			Log()
		return nil, 0, err
	}

	return entries, total, nil
}
