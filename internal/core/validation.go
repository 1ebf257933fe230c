package core

// validation.go holds the input rules shared by single-record operations and
// the bulk import pipeline.
//
// Names and emails are trimmed but otherwise kept as typed. Identity matching
// uses the lower-cased email, so "ALICE@x.com" and "alice@x.com" are the same
// person while the stored value keeps the original spelling. Lowering never
// expands a letter, so "strasse@x.com" and "straße@x.com" stay distinct.

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrDuplicateIdentity is returned when registering an email that is
	// already registered (case-insensitive).
	ErrDuplicateIdentity = errors.New("user with this email address is already registered")

	// ErrUnknownIdentity is returned when recording attendance for an email
	// that is not registered.
	ErrUnknownIdentity = errors.New("user is not registered with this email address")

	// ErrMissingField is returned when name or email is empty after trimming.
	ErrMissingField = errors.New("required field is empty: name and email are required")

	// ErrMissingImage is returned when an attendance submission has no captured image.
	ErrMissingImage = errors.New("captured image is required")

	// ErrMalformedImport is returned when import text lacks the name or email
	// column. No rows are written.
	ErrMalformedImport = errors.New("malformed import: CSV must contain \"Name\" and \"Email\" columns (case-insensitive)")

	// ErrNothingToExport is returned when exporting an empty collection.
	ErrNothingToExport = errors.New("nothing to export: collection is empty")
)

// emailChar matches anything but @ and Unicode whitespace. RE2's \s is ASCII
// only, so separators (\p{Z}), vertical tab, NEL and BOM are listed as well.
const emailChar = `[^@\s\v\p{Z}\x{85}\x{FEFF}]`

// emailPattern accepts local@domain.tld with no whitespace and a single @.
var emailPattern = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)

// ValidEmail reports whether email has the basic local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// emailKey returns the identity key for an email.
// A new Caser per call: casers carry state and are not safe to share.
func emailKey(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

// SameEmail reports whether two emails identify the same person.
func SameEmail(a, b string) bool {
	return emailKey(a) == emailKey(b)
}

// cleanIdentity trims the inputs and checks that both are present.
func cleanIdentity(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return name, email, ErrMissingField
	}
	return name, email, nil
}
