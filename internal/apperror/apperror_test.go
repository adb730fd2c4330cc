package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("Model", 7),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("photos", "photos is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "MethodNotAllowed wraps ErrMethodNotAllowed",
			err:       MethodNotAllowed("PATCH"),
			target:    ErrMethodNotAllowed,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("Model", 7),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "ValidationFailed does NOT match ErrNotFound",
			err:       ValidationFailed("id", "id must be a positive integer"),
			target:    ErrNotFound,
			wantMatch: false,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("getting model: %w", NotFound("Model", 7)),
			target:    ErrNotFound,
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message names the resource only",
			err:         NotFound("Model", 42),
			wantMessage: "Model not found",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("faceType", "faceType is required"),
			wantMessage: "faceType is required",
		},
		{
			name:        "MethodNotAllowed has a fixed message",
			err:         MethodNotAllowed("PATCH"),
			wantMessage: "Method not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestAsExtractsAppError(t *testing.T) {
	err := fmt.Errorf("creating model: %w", ValidationFailed("photos", "photos must not be empty"))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As() did not find *AppError")
	}
	if appErr.Field != "photos" {
		t.Errorf("Field = %q, want %q", appErr.Field, "photos")
	}
}

func TestUnwrapIncludesResourceDetail(t *testing.T) {
	// The client-facing message hides the id, the wrapped error keeps it for logs.
	err := NotFound("Model", 9)
	if got := err.Unwrap().Error(); got != "not found: Model 9" {
		t.Errorf("Unwrap().Error() = %q, want %q", got, "not found: Model 9")
	}
}
