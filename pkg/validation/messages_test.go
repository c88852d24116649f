package validation

import (
	"errors"
	"testing"
)

func TestDefaultMessage(t *testing.T) {
	tests := []struct {
		field, tag, param string
		want              string
	}{
		{"Email", "required", "", "email is required"},
		{"Email", "email", "", "email must be a valid email address"},
		{"Password", "min", "6", "password must be at least 6 characters"},
		{"FirstName", "max", "50", "firstname must be at most 50 characters"},
		{"Password", "unknown-tag", "", "password is invalid"},
	}

	for _, tt := range tests {
		if got := DefaultMessage(tt.field, tt.tag, tt.param); got != tt.want {
			t.Errorf("DefaultMessage(%q, %q, %q) = %q, want %q",
				tt.field, tt.tag, tt.param, got, tt.want)
		}
	}
}

func TestMessageFromBindErrorFallback(t *testing.T) {
	got := MessageFromBindError(errors.New("unexpected EOF"))
	if got != "invalid request body" {
		t.Errorf("MessageFromBindError = %q, want the generic fallback", got)
	}
}
