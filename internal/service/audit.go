package service

import (
	"context"
	"encoding/json"

	"github.com/pitchcoach-app/auth-service/internal/model"
	"github.com/pitchcoach-app/auth-service/internal/repository"
	ctxutil "github.com/pitchcoach-app/auth-service/pkg/context"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"gorm.io/datatypes"
)

// AuditService appends immutable audit rows for authentication events.
// It fails open: a failure to record is logged and swallowed, it never
// aborts the flow that triggered it.
type AuditService struct {
	repo *repository.AuditLogRepository
}

func NewAuditService(repo *repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends one audit entry. Requester IP and user agent are read
// from the context put there by the HTTP layer. userID may be empty for
// events with no resolved identity. No error is returned; business
// logic never consumes this side effect.
func (s *AuditService) Record(ctx context.Context, userID string, event model.AuditEvent, metadata map[string]any) {
	ctx = ctxutil.WithModule(ctx, "service", "Record")

	if !event.Valid() {
		logger.WarnWithContext(ctx, "Dropping audit entry with unknown event type").
			String("event_type", string(event)).
			Log()
		return
	}

	entry := &model.AuditLog{
		EventType: event,
		IPAddress: ctxutil.GetClientIP(ctx),
		UserAgent: ctxutil.GetUserAgent(ctx),
	}
	if userID != "" {
		entry.UserID = &userID
	}
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		// Swallowed: audit write failure must not block authentication
		logger.ErrorWithContext(ctx, "Audit entry dropped").
			String("event_type", string(event)).
			Err(err).
			Log()
	}
}

// ListByUser returns a page of the user's audit trail, newest first
func (s *AuditService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.AuditLog, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
