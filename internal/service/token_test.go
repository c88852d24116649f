package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/pitchcoach-app/auth-service/internal/errors"
)

// Access token tests need no store; the refresh repository is only
// touched by the refresh flows, which are covered in session_test.go.
func newAccessTokenService(accessTTL time.Duration) *TokenService {
	return NewTokenService("test-secret", accessTTL, 7*24*time.Hour, nil)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newAccessTokenService(15 * time.Minute)

	token, expiresAt, err := svc.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if until := time.Until(expiresAt); until < 14*time.Minute || until > 16*time.Minute {
		t.Errorf("expiry %v not near the configured TTL", until)
	}

	userID, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("subject = %q, want user-123", userID)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	svc := newAccessTokenService(-1 * time.Minute)

	token, _, err := svc.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	_, err = svc.VerifyAccessToken(token)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("expected TOKEN_EXPIRED, got %v", err)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, _, err := newAccessTokenService(15 * time.Minute).IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	other := NewTokenService("different-secret", 15*time.Minute, time.Hour, nil)
	_, err = other.VerifyAccessToken(token)
	if !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("expected INVALID_TOKEN, got %v", err)
	}
	if errors.Is(err, apperrors.ErrTokenExpired) {
		t.Error("signature failure must not read as expiry")
	}
}

func TestAccessTokenGarbage(t *testing.T) {
	svc := newAccessTokenService(15 * time.Minute)

	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.VerifyAccessToken(input); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("VerifyAccessToken(%q): expected INVALID_TOKEN, got %v", input, err)
		}
	}
}

func TestAccessTokenRejectsUnsignedAlgorithm(t *testing.T) {
	svc := newAccessTokenService(15 * time.Minute)

	claims := jwt.RegisteredClaims{
		Subject:   "user-123",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("building none-alg token: %v", err)
	}

	if _, err := svc.VerifyAccessToken(unsigned); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("none-alg token must be rejected as INVALID_TOKEN, got %v", err)
	}
}

func TestAccessTokenRejectsEmptySubject(t *testing.T) {
	svc := newAccessTokenService(15 * time.Minute)

	token, _, err := svc.IssueAccessToken("")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if _, err := svc.VerifyAccessToken(token); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("token with empty subject must be rejected, got %v", err)
	}
}
