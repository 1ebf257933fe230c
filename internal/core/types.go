package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/roster/internal/csvcodec"
)

// Collection names a persisted record collection.
type Collection string

const (
	CollectionIdentities Collection = "registeredUsers"
	CollectionAttendance Collection = "attendanceHistory"
)

// Backend persists whole collections as opaque encoded values.
//
// Load returns nil data and a nil error when the collection has never been
// written. Save replaces the stored value in one step: a concurrent or later
// Load observes either the old or the new value, never a partial write.
type Backend interface {
	Load(ctx context.Context, c Collection) ([]byte, error)
	Save(ctx context.Context, c Collection, data []byte) error
	Delete(ctx context.Context, c Collection) error
}

// Identity is a registered person. Email is the identity key.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CSVRecord returns the identity as CSV cells.
func (i Identity) CSVRecord() csvcodec.Record {
	return csvcodec.Record{
		{Name: FieldName, Value: i.Name},
		{Name: FieldEmail, Value: i.Email},
	}
}

// AttendanceEntry is one check-in. Image is an opaque encoded blob (usually a
// data URL) that is stored and passed through untouched.
type AttendanceEntry struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
	Image     string `json:"image"`
}

// CSVRecord returns the entry as CSV cells.
func (e AttendanceEntry) CSVRecord() csvcodec.Record {
	return csvcodec.Record{
		{Name: FieldName, Value: e.Name},
		{Name: FieldEmail, Value: e.Email},
		{Name: FieldTimestamp, Value: e.Timestamp},
		{Name: FieldImage, Value: e.Image},
	}
}

// Field names shared by persistence and the CSV interchange format.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldTimestamp = "timestamp"
	FieldImage     = "image"
)

// RowError describes one import row that was skipped.
type RowError struct {
	Line   int    `json:"line"`
	Email  string `json:"email,omitempty"`
	Reason string `json:"reason"`
}

// Error returns the human-readable form, e.g. `Row 4: Invalid email format for "x".`
func (e RowError) Error() string {
	return e.Reason
}

// ImportResult summarizes a bulk import. Per-row failures are collected here
// rather than returned as errors.
type ImportResult struct {
	ImportID        string        `json:"importId"`
	RegisteredCount int           `json:"registeredCount"`
	SkippedCount    int           `json:"skippedCount"`
	Errors          []string      `json:"errors"`
	Notice          string        `json:"notice,omitempty"`
	RowErrors       []RowError    `json:"-"`
	DryRun          bool          `json:"dryRun,omitempty"`
	Duration        time.Duration `json:"-"`
}

// Export is a rendered CSV download.
type Export struct {
	Filename    string
	ContentType string
	Content     string
}

// Observer receives store events. The metrics package provides the
// Prometheus implementation; nopObserver is used when none is configured.
type Observer interface {
	IdentityRegistered()
	RegistrationRejected(reason string)
	AttendanceRecorded()
	AttendanceRejected(reason string)
	ImportFinished(result ImportResult)
	CollectionCleared(c Collection)
	CollectionRecovered(c Collection)
}

type nopObserver struct{}

func (nopObserver) IdentityRegistered() {}
func (nopObserver) RegistrationRejected(string) {}
func (nopObserver) AttendanceRecorded() {}
func (nopObserver) AttendanceRejected(string) {}
func (nopObserver) ImportFinished(ImportResult) {}
func (nopObserver) CollectionCleared(Collection) {}
func (nopObserver) CollectionRecovered(Collection) {}
