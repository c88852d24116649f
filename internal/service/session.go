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

// SessionManager orchestrates the session lifecycle. It is an
// interface so alternative backends (e.g. a managed auth provider) can
// be selected at process start instead of maintained as parallel code
// paths.
type SessionManager interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error)
	Logout(ctx context.Context, refreshToken, userID string) error
}

// SessionService is the store-backed SessionManager. There is no
// persisted session object; per-request state is reconstructed from
// the presented tokens.
type SessionService struct {
	users          *repository.UserRepository
	tokens         *TokenService
	audit          *AuditService
	bcryptCost     int
	minPasswordLen int
}

func NewSessionService(users *repository.UserRepository, tokens *TokenService, audit *AuditService, bcryptCost, minPasswordLen int) *SessionService {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	if minPasswordLen <= 0 {
		minPasswordLen = 6
	}
	return &SessionService{
		users:          users,
		tokens:         tokens,
		audit:          audit,
		bcryptCost:     bcryptCost,
		minPasswordLen: minPasswordLen,
	}
}

var _ SessionManager = (*SessionService)(nil)

// Register creates a new account and opens a session. Input validation
// happens at the binding layer, before any store I/O. Email uniqueness
// is decided by the store's unique index; a duplicate-key insert is an
// expected condition translated to DUPLICATE_EMAIL.
func (s *SessionService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithModule(ctx, "service", "Register")

	// The binding floor is 6; the configured policy may be stricter
	if len(req.Password) < s.minPasswordLen {
		return nil, apperrors.NewDomainError(apperrors.ErrValidation.Code,
			fmt.Sprintf("password must be at least %d characters", s.minPasswordLen))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashed),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.InfoWithContext(ctx, "Registration rejected, email already registered").Log()
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	accessToken, refreshToken, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, user.ID, model.EventRegister, nil)

	logger.InfoWithContext(ctx, "User registered").
		String("user_id", user.ID).
		Log()

	return &dto.AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Login authenticates credentials and opens a session. Unknown email
// and wrong password both return the same INVALID_CREDENTIALS error so
// responses reveal nothing about account existence.
func (s *SessionService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithModule(ctx, "service", "Login")

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Login failed, unknown email").Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		logger.InfoWithContext(ctx, "Login failed, wrong password").
			String("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	// Best-effort: a failed stamp does not fail the login
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.WarnWithContext(ctx, "Failed to stamp last login").
			String("user_id", user.ID).
			Err(err).
			Log()
	}

	accessToken, refreshToken, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, user.ID, model.EventLogin, nil)

	logger.InfoWithContext(ctx, "User logged in").
		String("user_id", user.ID).
		Log()

	return &dto.AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh rotates a refresh token: the presented value is consumed
// atomically (at most one concurrent caller wins), then a brand-new
// pair is issued. If the owning user vanished between issuance and
// use, the token is still consumed and the flow fails with 404.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	ctx = ctxutil.WithModule(ctx, "service", "Refresh")

	userID, err := s.tokens.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		logger.InfoWithContext(ctx, "Refresh rejected").
			Err(err).
			Log()
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Refresh token owner no longer exists").
				String("user_id", userID).
				Log()
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	accessToken, newRefreshToken, err := s.issueTokenPair(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, userID, model.EventTokenRefresh, nil)

	logger.InfoWithContext(ctx, "Tokens rotated").
		String("user_id", userID).
		Log()

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the presented refresh token if there is one. It never
// fails visibly: an absent or already-deleted token and even a storage
// error all still end in success for the client. The logout audit
// entry is only written when the caller's identity is known from a
// valid access token.
func (s *SessionService) Logout(ctx context.Context, refreshToken, userID string) error {
	ctx = ctxutil.WithModule(ctx, "service", "Logout")

	if refreshToken != "" {
		if err := s.tokens.RevokeRefreshToken(ctx, refreshToken); err != nil {
			logger.WarnWithContext(ctx, "Failed to revoke refresh token on logout").
				Err(err).
				Log()
		}
	}

	if userID != "" {
		s.audit.Record(ctx, userID, model.EventLogout, nil)
	}

	logger.InfoWithContext(ctx, "User logged out").
		String("user_id", userID).
		Log()

	return nil
}

// issueTokenPair mints an access token and persists a refresh token
func (s *SessionService) issueTokenPair(ctx context.Context, userID string) (string, string, error) {
	accessToken, _, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return "", "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, _, err := s.tokens.IssueRefreshToken(ctx, userID)
	if err != nil {
		return "", "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return accessToken, refreshToken, nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}
