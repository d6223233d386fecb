package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	storeErr := errors.New("UNIQUE constraint failed: hackathon_teams.name")

	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("hackathon", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("email", "Please enter a valid email address"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("That team name is taken.", storeErr),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Conflict keeps the store cause",
			err:       Conflict("That team name is taken.", storeErr),
			target:    storeErr,
			wantMatch: true,
		},
		{
			name:      "Unavailable wraps ErrUnavailable",
			err:       Unavailable("leaderboard unavailable", storeErr),
			target:    ErrUnavailable,
			wantMatch: true,
		},
		{
			name:      "wrapped Conflict still matches",
			err:       fmt.Errorf("creating team: %w", Conflict("taken", nil)),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("team", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "ValidationFailed does NOT match ErrConflict",
			err:       ValidationFailed("name", "too short"),
			target:    ErrConflict,
			wantMatch: false,
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
			name:        "NotFound message includes resource and id",
			err:         NotFound("hackathon", "abc123"),
			wantMessage: "hackathon not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("name", "Name must be at least 2 characters"),
			wantMessage: "Name must be at least 2 characters",
		},
		{
			name:        "Conflict without cause is just the message",
			err:         Conflict("You're already subscribed.", nil),
			wantMessage: "You're already subscribed.",
		},
		{
			name:        "Conflict with cause appends it",
			err:         Conflict("taken", errors.New("unique")),
			wantMessage: "taken: unique",
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

func TestMessageFor(t *testing.T) {
	if got := MessageFor(fmt.Errorf("wrap: %w", Conflict("already submitted", nil))); got != "already submitted" {
		t.Errorf("MessageFor(conflict) = %q", got)
	}
	if got := MessageFor(errors.New("disk I/O error")); got != GenericMessage {
		t.Errorf("MessageFor(plain) = %q, want generic", got)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("email", "invalid email format")

	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}
