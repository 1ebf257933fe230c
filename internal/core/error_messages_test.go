package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped duplicate identity",
			err:         fmt.Errorf("register %q: %w", "alice@x.com", ErrDuplicateIdentity),
			wantCode:    "REG001",
			wantMessage: "User with this email address is already registered",
		},
		{
			name:        "missing field",
			err:         ErrMissingField,
			wantCode:    "REG002",
			wantMessage: "Please fill in Name and Email",
		},
		{
			name:        "wrapped unknown identity",
			err:         fmt.Errorf("record attendance for %q: %w", "bob@x.com", ErrUnknownIdentity),
			wantCode:    "ATT001",
			wantMessage: "User is not registered with this email address",
		},
		{
			name:        "missing image",
			err:         ErrMissingImage,
			wantCode:    "ATT002",
			wantMessage: "Please capture an image",
		},
		{
			name:        "malformed import",
			err:         ErrMalformedImport,
			wantCode:    "IMP001",
			wantMessage: "CSV must contain \"Name\" and \"Email\" columns",
		},
		{
			name:        "import busy",
			err:         ErrTooManyImports,
			wantCode:    "IMP002",
			wantMessage: "Another import is in progress",
		},
		{
			name:        "nothing to export",
			err:         ErrNothingToExport,
			wantCode:    "EXP001",
			wantMessage: "There is nothing to export",
		},
		{
			name:        "wrapped deadline wins over text",
			err:         fmt.Errorf("load registeredUsers: %w", context.DeadlineExceeded),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "sqlite busy",
			err:         errors.New("save registeredUsers: database is locked (5) (SQLITE_BUSY)"),
			wantCode:    "STO003",
			wantMessage: "Storage is busy with another operation",
		},
		{
			name:        "connection refused",
			err:         errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode:    "STO001",
			wantMessage: "Unable to connect to storage",
		},
		{
			name:        "file too large",
			err:         errors.New("file too large: 12MB exceeds limit"),
			wantCode:    "IMP003",
			wantMessage: "File exceeds the maximum import size",
		},
		{
			name:        "rate limit",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "REQ003",
			wantMessage: "Too many requests",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("open /data/x.json: PERMISSION DENIED"),
			wantCode:    "STO005",
			wantMessage: "Storage is not writable",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrMissingImage)

	expected := "Please capture an image (Code: ATT002). Take a photo before submitting attendance"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"sentinel is user facing", ErrDuplicateIdentity, true},
		{"known pattern is user facing", errors.New("no space left on device"), true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("register: %w", ErrDuplicateIdentity)
		userErr := NewUserError(techErr)

		if userErr.Error() != "User with this email address is already registered" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrDuplicateIdentity) {
			t.Error("Unwrap() should expose the original error chain")
		}
	})
}
