package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserError(t *testing.T) {
	cause := ErrNotFound
	err := NewUserError("account could not be loaded", cause)

	if got := err.Error(); got != "account could not be loaded: not found" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is to see through to the cause")
	}

	var userErr *UserError
	if !errors.As(err, &userErr) {
		t.Fatal("expected errors.As to find UserError")
	}
	if userErr.UserMessage != "account could not be loaded" {
		t.Errorf("UserMessage = %q", userErr.UserMessage)
	}
}

func TestUserError_NoCause(t *testing.T) {
	err := NewUserError("nothing to do", nil)
	if got := err.Error(); got != "nothing to do" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUserError_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("command failed: %w", NewUserError("import rejected", ErrParse))

	var userErr *UserError
	if !errors.As(wrapped, &userErr) {
		t.Fatal("expected errors.As to find UserError through fmt.Errorf wrapping")
	}
	if userErr.UserMessage != "import rejected" {
		t.Errorf("UserMessage = %q", userErr.UserMessage)
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"bare sentinel", ErrNotFound, true},
		{"wrapped sentinel", fmt.Errorf("account %q: %w", "ghost", ErrNotFound), true},
		{"user error over sentinel", NewUserError("missing", ErrNotFound), true},
		{"other error", ErrConflict, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}
