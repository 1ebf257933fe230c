package core

// error_messages.go maps errors to user-facing messages with support codes.
//
// Codes by category:
//
//	REG001  Email already registered            ErrDuplicateIdentity
//	REG002  Name or email missing               ErrMissingField
//	ATT001  Email not registered                ErrUnknownIdentity
//	ATT002  No captured image                   ErrMissingImage
//	IMP001  Name/Email columns missing          ErrMalformedImport
//	IMP002  Another import running              ErrTooManyImports
//	IMP003  File too large                      "file too large"
//	IMP004  File is not text                    "not a text file"
//	IMP005  No file selected                    "no file provided"
//	EXP001  Nothing to export                   ErrNothingToExport
//	STO001  Storage unreachable                 "connection refused"
//	STO002  Storage connection interrupted      "connection reset"
//	STO003  Storage busy                        "database is locked", "deadlock"
//	STO004  Storage timed out                   "timeout"
//	STO005  Storage not writable                "permission denied", "read-only"
//	STO006  Storage full                        "no space left"
//	REQ001  Request cancelled                   context.Canceled
//	REQ002  Request timed out                   context.DeadlineExceeded
//	REQ003  Too many requests                   "rate limit"
//	REQ004  Confirmation missing                "confirmation required"
//	REQ005  Request body unreadable             "invalid request body"
//	ERR000  Anything else; check the logs for the technical error.
//
// Sentinels are matched with errors.Is before any text pattern, so wrapped
// errors keep their code. Patterns are matched case-insensitively and the
// first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrDuplicateIdentity, UserMessage{
		Message: "User with this email address is already registered",
		Action:  "Use a different email address or record attendance instead",
		Code:    "REG001",
	}},
	{ErrMissingField, UserMessage{
		Message: "Please fill in Name and Email",
		Action:  "Enter both a name and an email address",
		Code:    "REG002",
	}},
	{ErrUnknownIdentity, UserMessage{
		Message: "User is not registered with this email address",
		Action:  "Register the user before recording attendance",
		Code:    "ATT001",
	}},
	{ErrMissingImage, UserMessage{
		Message: "Please capture an image",
		Action:  "Take a photo before submitting attendance",
		Code:    "ATT002",
	}},
	{ErrMalformedImport, UserMessage{
		Message: "CSV must contain \"Name\" and \"Email\" columns",
		Action:  "Add a header row with Name and Email columns (any case)",
		Code:    "IMP001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "Another import is in progress",
		Action:  "Please wait a moment and try again",
		Code:    "IMP002",
	}},
	{ErrNothingToExport, UserMessage{
		Message: "There is nothing to export",
		Action:  "Add records before exporting",
		Code:    "EXP001",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "REQ002",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	storageBusy = UserMessage{
		Message: "Storage is busy with another operation",
		Action:  "Please try again",
		Code:    "STO003",
	}
	storageReadOnly = UserMessage{
		Message: "Storage is not writable",
		Action:  "Contact an administrator to check storage permissions",
		Code:    "STO005",
	}
)

// errorPatterns is checked in order after the sentinels.
var errorPatterns = []errorPattern{
	// Import file problems, raised by the HTTP layer.
	{"file too large", UserMessage{
		Message: "File exceeds the maximum import size",
		Action:  "Split the file into smaller files",
		Code:    "IMP003",
	}},
	{"not a text file", UserMessage{
		Message: "Please select a valid CSV file",
		Action:  "Export the sheet as CSV (comma-separated) and try again",
		Code:    "IMP004",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV file to import",
		Code:    "IMP005",
	}},

	// Storage backends.
	{"connection refused", UserMessage{
		Message: "Unable to connect to storage",
		Action:  "Please try again in a few moments",
		Code:    "STO001",
	}},
	{"connection reset", UserMessage{
		Message: "Storage connection was interrupted",
		Action:  "Please try again",
		Code:    "STO002",
	}},
	{"database is locked", storageBusy},
	{"deadlock", storageBusy},
	{"timeout", UserMessage{
		Message: "Storage operation timed out",
		Action:  "Please try again later",
		Code:    "STO004",
	}},
	{"permission denied", storageReadOnly},
	{"read-only", storageReadOnly},
	{"no space left", UserMessage{
		Message: "Storage is full",
		Action:  "Export and clear old attendance history, or contact an administrator",
		Code:    "STO006",
	}},

	// Request handling.
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "REQ003",
	}},
	{"confirmation required", UserMessage{
		Message: "This action deletes data and must be confirmed",
		Action:  "Confirm the action to continue",
		Code:    "REQ004",
	}},
	{"invalid request body", UserMessage{
		Message: "The request could not be read",
		Action:  "Check the submitted fields and try again",
		Code:    "REQ005",
	}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message. Known sentinels win
// over text patterns; anything unrecognized gets the ERR000 fallback.
//
// Example:
//
//	err := fmt.Errorf("register %q: %w", email, ErrDuplicateIdentity)
//	msg := MapError(err)
//	// msg.Code == "REG001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err and keeps the original for logging.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
