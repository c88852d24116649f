package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pitchcoach-app/auth-service/internal/dto"
	apperrors "github.com/pitchcoach-app/auth-service/internal/errors"
	"github.com/pitchcoach-app/auth-service/internal/model"
	"github.com/pitchcoach-app/auth-service/internal/repository"
	ctxutil "github.com/pitchcoach-app/auth-service/pkg/context"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService serves the authenticated user's profile surface: reads,
// partial updates, password change, audit trail.
type UserService struct {
	users          *repository.UserRepository
	tokens         *TokenService
	audit          *AuditService
	bcryptCost     int
	minPasswordLen int
}

func NewUserService(users *repository.UserRepository, tokens *TokenService, audit *AuditService, bcryptCost, minPasswordLen int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	if minPasswordLen <= 0 {
		minPasswordLen = 6
	}
	return &UserService{
		users:          users,
		tokens:         tokens,
		audit:          audit,
		bcryptCost:     bcryptCost,
		minPasswordLen: minPasswordLen,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithModule(ctx, "service", "GetProfile")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// UpdateProfile applies a partial update of first/last name and email.
// An email change is re-checked for uniqueness by the store's unique
// index (the user's own row cannot conflict with itself) and fails
// with EMAIL_IN_USE on conflict.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithModule(ctx, "service", "UpdateProfile")

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		updates["last_name"] = strings.TrimSpace(req.LastName)
	}
	if req.Email != "" {
		updates["email"] = strings.ToLower(strings.TrimSpace(req.Email))
	}

	if len(updates) == 0 {
		return nil, apperrors.NewDomainError(apperrors.ErrValidation.Code, "no updates provided")
	}

	if err := s.users.UpdateProfile(ctx, userID, updates); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			logger.InfoWithContext(ctx, "Profile update rejected, email in use").
				String("user_id", userID).
				Log()
			return nil, apperrors.ErrEmailInUse
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperrors.ErrUserNotFound
		default:
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Profile updated").
		String("user_id", userID).
		Log()

	resp := toUserResponse(user)
	return &resp, nil
}

// ChangePassword verifies the current password, stores the new hash
// and revokes every outstanding refresh token so stolen refresh tokens
// die with the old password. Outstanding access tokens remain valid
// until expiry; that is the accepted stateless-token tradeoff.
func (s *UserService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	ctx = ctxutil.WithModule(ctx, "service", "ChangePassword")

	// The binding floor is 6; the configured policy may be stricter
	if len(req.NewPassword) < s.minPasswordLen {
		return apperrors.NewDomainError(apperrors.ErrValidation.Code,
			fmt.Sprintf("newPassword must be at least %d characters", s.minPasswordLen))
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		logger.InfoWithContext(ctx, "Password change rejected, current password mismatch").
			String("user_id", userID).
			Log()
		return apperrors.ErrIncorrectPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		logger.WarnWithContext(ctx, "Failed to revoke refresh tokens after password change").
			String("user_id", userID).
			Err(err).
			Log()
	}

	s.audit.Record(ctx, userID, model.EventPasswordChange, nil)

	logger.InfoWithContext(ctx, "Password changed").
		String("user_id", userID).
		Log()

	return nil
}

// ListAuditLogs returns one page of the caller's audit trail
func (s *UserService) ListAuditLogs(ctx context.Context, userID string, limit, offset int) ([]dto.AuditLogResponse, int64, error) {
	ctx = ctxutil.WithModule(ctx, "service", "ListAuditLogs")

	entries, total, err := s.audit.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.AuditLogResponse{
			ID:        e.ID,
			EventType: string(e.EventType),
			IPAddress: e.IPAddress,
			UserAgent: e.UserAgent,
			CreatedAt: e.CreatedAt,
		})
	}

	return resp, total, nil
}
