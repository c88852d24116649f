package repository

import (
	"context"
	"strings"
	"time"

	"github.com/pitchcoach-app/auth-service/internal/model"
	ctxutil "github.com/pitchcoach-app/auth-service/pkg/context"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	ctx = ctxutil.WithModule(ctx, "repository", "GetByID")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by ID").
			String("user_id", id).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByEmail finds a user by email, case-insensitively. Emails are
// stored lowercased; lowercasing the lookup key keeps the comparison
// symmetric regardless of what the caller passes.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithModule(ctx, "repository", "GetByEmail")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by email").
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// Create inserts a new user. A unique-index conflict comes back as
// gorm.ErrDuplicatedKey; the session service owns the translation to
// DUPLICATE_EMAIL. The constraint is the final arbiter of uniqueness,
// there is no pre-check here.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithModule(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		logger.WarnWithContext(ctx, "Failed to create user").
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("user_id", user.ID).
		Duration(time.Since(start)).
		Log()

	return nil
}

// UpdateProfile applies a partial update of name and email fields.
// Email conflicts surface as gorm.ErrDuplicatedKey via the unique
// index, which excludes the user's own row by definition.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error {
	ctx = ctxutil.WithModule(ctx, "repository", "UpdateProfile")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.WarnWithContext(ctx, "Failed to update user profile").
			String("user_id", id).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, hashedPassword string) error {
	ctx = ctxutil.WithModule(ctx, "repository", "UpdatePassword")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("password", hashedPassword)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user password").
			String("user_id", id).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User password updated").
		String("user_id", id).
		Duration(time.Since(start)).
		Log()

	return nil
}

// UpdateLastLogin stamps the last login time. Callers treat failure as
// best-effort.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	ctx = ctxutil.WithModule(ctx, "repository", "UpdateLastLogin")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("last_login", time.Now())
	if result.Error != nil {
		logger.WarnWithContext(ctx, "Failed to update last login").
			String("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}
