package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound_MatchesSentinel(t *testing.T) {
	err := NotFound("user", 42)

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() should match ErrNotFound via errors.Is")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("NotFound() should not match ErrValidation")
	}
}

func TestValidationFailed_CarriesFieldAndMessage(t *testing.T) {
	err := ValidationFailed("password", "password must be at least 6 characters")

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() should match ErrValidation")
	}
	if err.Field != "password" {
		t.Errorf("Field = %q, want %q", err.Field, "password")
	}
	if err.Error() != "password must be at least 6 characters" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestUnauthorized_MatchesSentinel(t *testing.T) {
	err := Unauthorized("invalid email or password")

	if !errors.Is(err, ErrUnauthorized) {
		t.Error("Unauthorized() should match ErrUnauthorized")
	}
}

func TestConflict_MatchesSentinel(t *testing.T) {
	err := Conflict("a user with this email already exists")

	if !errors.Is(err, ErrConflict) {
		t.Error("Conflict() should match ErrConflict")
	}
}

// Wrapping an AppError with fmt.Errorf("%w") must preserve errors.Is matching —
// services wrap repository errors with context, and the HTTP layer still needs
// to classify them.
func TestAppError_SurvivesWrapping(t *testing.T) {
	inner := NotFound("task", 7)
	wrapped := fmt.Errorf("fetching task: %w", inner)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped AppError should still match ErrNotFound")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should extract the AppError from the chain")
	}
	if appErr.Message != "task not found with id 7" {
		t.Errorf("Message = %q", appErr.Message)
	}
}
