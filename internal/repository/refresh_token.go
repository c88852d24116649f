package repository

import (
	"context"
	"time"

	"github.com/pitchcoach-app/auth-service/internal/model"
	ctxutil "github.com/pitchcoach-app/auth-service/pkg/context"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	ctx = ctxutil.WithModule(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(token)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create refresh token").
			String("user_id", token.UserID).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// Consume atomically deletes a non-expired token row matching value and
// returns it. The single DELETE ... RETURNING statement is what makes
// rotation race-safe: two concurrent requests presenting the same token
// get at most one row between them, the loser sees ErrRecordNotFound.
// Expired rows never match, so expired and absent are indistinguishable
// here by construction.
func (r *RefreshTokenRepository) Consume(ctx context.Context, value string) (*model.RefreshToken, error) {
	ctx = ctxutil.WithModule(ctx, "repository", "Consume")

	start := time.Now()
	var deleted []model.RefreshToken

	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("token = ? AND expires_at > ?", value, time.Now()).
		Delete(&deleted)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to consume refresh token").
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	if result.RowsAffected == 0 || len(deleted) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Refresh token consumed").
		String("user_id", deleted[0].UserID).
		Duration(time.Since(start)).
		Log()

	return &deleted[0], nil
}

// Delete removes a token by value. Zero rows affected is not an error;
// logout is idempotent.
func (r *RefreshTokenRepository) Delete(ctx context.Context, value string) (int64, error) {
	ctx = ctxutil.WithModule(ctx, "repository", "Delete")

	result := r.db.WithContext(ctx).Where("token = ?", value).Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete refresh token").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// DeleteByUser revokes every refresh token a user holds. Used on
// password change so stolen refresh tokens die with the old password.
func (r *RefreshTokenRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ctx = ctxutil.WithModule(ctx, "repository", "DeleteByUser")

	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete user refresh tokens").
			String("user_id", userID).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// CleanupExpired removes expired rows in a batch. Purely housekeeping:
// expired rows are already invisible to Consume.
func (r *RefreshTokenRepository) CleanupExpired(ctx context.Context) (int64, error) {
	ctx = ctxutil.WithModule(ctx, "repository", "CleanupExpired")

	start := time.Now()
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to cleanup expired refresh tokens").
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.InfoWithContext(ctx, "Expired refresh tokens cleaned up").
			Int64("cleaned_count", result.RowsAffected).
			Duration(time.Since(start)).
			Log()
	}

	return result.RowsAffected, nil
}
