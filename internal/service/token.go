package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/pitchcoach-app/auth-service/internal/errors"
	"github.com/pitchcoach-app/auth-service/internal/model"
	"github.com/pitchcoach-app/auth-service/internal/repository"
	ctxutil "github.com/pitchcoach-app/auth-service/pkg/context"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"gorm.io/gorm"
)

// TokenService mints and verifies the two token kinds: short-lived
// stateless HS256 access tokens and long-lived single-use opaque
// refresh tokens persisted in the store.
type TokenService struct {
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	refreshRepo *repository.RefreshTokenRepository
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, refreshRepo *repository.RefreshTokenRepository) *TokenService {
	return &TokenService{
		secret:      []byte(secret),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		refreshRepo: refreshRepo,
	}
}

// IssueAccessToken produces a signed JWT whose payload is exactly
// subject, issued-at and expiry. The server keeps no record of it.
func (s *TokenService) IssueAccessToken(userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTTL)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

// VerifyAccessToken validates signature and expiry and returns the
// subject user ID. Expiry is reported distinctly from every other
// failure so clients know to attempt a refresh instead of re-login.
// Only HS256 is accepted; a token claiming any other algorithm fails
// verification outright.
func (s *TokenService) VerifyAccessToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrTokenExpired
		}
		return "", apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperrors.ErrInvalidToken
	}

	return claims.Subject, nil
}

// IssueRefreshToken generates a cryptographically random opaque value
// and persists it with the configured TTL. Knowledge of the value is
// the sole proof of possession.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID string) (string, time.Time, error) {
	ctx = ctxutil.WithModule(ctx, "service", "IssueRefreshToken")

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	value := base64.URLEncoding.EncodeToString(raw)
	expiresAt := time.Now().Add(s.refreshTTL)

	entry := &model.RefreshToken{
		UserID:    userID,
		Token:     value,
		ExpiresAt: expiresAt,
	}
	if err := s.refreshRepo.Create(ctx, entry); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	logger.DebugWithContext(ctx, "Refresh token issued").
		String("user_id", userID).
		Time("expires_at", expiresAt).
		Log()

	return value, expiresAt, nil
}

// ConsumeRefreshToken atomically uses up a refresh token and returns
// the owning user ID. Absent and expired collapse into one error so
// responses leak nothing about which it was.
func (s *TokenService) ConsumeRefreshToken(ctx context.Context, value string) (string, error) {
	ctx = ctxutil.WithModule(ctx, "service", "ConsumeRefreshToken")

	entry, err := s.refreshRepo.Consume(ctx, value)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidRefreshToken
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return entry.UserID, nil
}

// RevokeRefreshToken deletes a token by value. Idempotent: revoking an
// absent token is a no-op, not an error.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, value string) error {
	_, err := s.refreshRepo.Delete(ctx, value)
	return err
}

// RevokeAllForUser revokes every refresh token the user holds
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := s.refreshRepo.DeleteByUser(ctx, userID)
	return err
}

// AccessTTL exposes the configured access token lifetime
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}
