package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"duplicate email", ErrDuplicateEmail, http.StatusBadRequest},
		{"email in use", ErrEmailInUse, http.StatusBadRequest},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"auth required", ErrAuthRequired, http.StatusUnauthorized},
		{"token expired", ErrTokenExpired, http.StatusUnauthorized},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized},
		{"invalid refresh token", ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"incorrect password", ErrIncorrectPassword, http.StatusUnauthorized},
		{"user not found", ErrUserNotFound, http.StatusNotFound},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTTPStatus(tt.err); got != tt.want {
				t.Errorf("ToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrappedErrorMatchesVariant(t *testing.T) {
	wrapped := WrapError(ErrInternal, errors.New("connection refused"))

	if !errors.Is(wrapped, ErrInternal) {
		t.Error("wrapped error should match its variant via errors.Is")
	}
	if errors.Is(wrapped, ErrUserNotFound) {
		t.Error("wrapped error should not match a different variant")
	}
	if ToHTTPStatus(wrapped) != http.StatusInternalServerError {
		t.Errorf("wrapped error status = %d, want 500", ToHTTPStatus(wrapped))
	}
}

func TestWrappedErrorThroughFmtChain(t *testing.T) {
	err := fmt.Errorf("refresh flow: %w", ErrInvalidRefreshToken)

	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Error("fmt-wrapped domain error should still match via errors.Is")
	}
	if got := GetErrorCode(err); got != "INVALID_REFRESH_TOKEN" {
		t.Errorf("GetErrorCode = %q, want INVALID_REFRESH_TOKEN", got)
	}
}

func TestGetErrorMessageHidesWrappedDetail(t *testing.T) {
	wrapped := WrapError(ErrInternal, errors.New("pq: password authentication failed"))

	if got := GetErrorMessage(wrapped); got != ErrInternal.Message {
		t.Errorf("GetErrorMessage = %q, leaked wrapped detail", got)
	}
}

func TestGetErrorCodeDefaultsToInternal(t *testing.T) {
	if got := GetErrorCode(errors.New("boom")); got != ErrInternal.Code {
		t.Errorf("GetErrorCode = %q, want %q", got, ErrInternal.Code)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := WrapError(ErrInternal, cause)

	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should expose its cause to errors.Is")
	}
}
