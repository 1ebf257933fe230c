package core

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// TimestampLayouts are the formats AttendanceHistory understands when
// ordering entries. Timestamps are display strings chosen by the caller, so
// the list covers the usual locale renderings; anything else sorts last.
var TimestampLayouts = []string{
	"1/2/2006, 3:04:05 PM",
	time.RFC3339Nano,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2/1/2006, 15:04:05",
	"02/01/2006, 15:04:05",
	time.RFC1123,
}

// ListAttendance returns every attendance entry in persisted order.
func (s *Store) ListAttendance(ctx context.Context) ([]AttendanceEntry, error) {
	s.attendanceMu.Lock()
	defer s.attendanceMu.Unlock()

	return loadCollection[AttendanceEntry](ctx, s, CollectionAttendance)
}

// AttendanceHistory returns the entries newest first, for display.
func (s *Store) AttendanceHistory(ctx context.Context) ([]AttendanceEntry, error) {
	entries, err := s.ListAttendance(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(entries)
	return entries, nil
}

// RecordAttendance appends a check-in for a registered email. The entry name
// is whatever was submitted; it does not have to match the registration.
// Repeated check-ins are all kept.
func (s *Store) RecordAttendance(ctx context.Context, entry AttendanceEntry) error {
	name, email, err := cleanIdentity(entry.Name, entry.Email)
	if err != nil {
		s.observer.AttendanceRejected("missing_field")
		return err
	}
	if entry.Image == "" {
		s.observer.AttendanceRejected("missing_image")
		return ErrMissingImage
	}

	registered, err := s.IsRegistered(ctx, email)
	if err != nil {
		return err
	}
	if !registered {
		s.observer.AttendanceRejected("unknown_identity")
		return fmt.Errorf("record attendance for %q: %w", email, ErrUnknownIdentity)
	}

	entry.Name = name
	entry.Email = email

	s.attendanceMu.Lock()
	defer s.attendanceMu.Unlock()

	entries, err := loadCollection[AttendanceEntry](ctx, s, CollectionAttendance)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if err := saveCollection(ctx, s, CollectionAttendance, entries); err != nil {
		return err
	}

	s.observer.AttendanceRecorded()
	return nil
}

// ClearAttendance removes the whole attendance history. It is irreversible;
// confirmation belongs to the caller.
func (s *Store) ClearAttendance(ctx context.Context) error {
	s.attendanceMu.Lock()
	defer s.attendanceMu.Unlock()

	return s.clearCollection(ctx, CollectionAttendance)
}

// SortNewestFirst orders entries by timestamp, most recent first. Entries
// whose timestamp matches none of TimestampLayouts go last in their
// original order.
func SortNewestFirst(entries []AttendanceEntry) {
	type keyed struct {
		at    time.Time
		ok    bool
		entry AttendanceEntry
	}
	items := make([]keyed, len(entries))
	for i, e := range entries {
		at, ok := ParseTimestamp(e.Timestamp)
		items[i] = keyed{at: at, ok: ok, entry: e}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.ok && b.ok:
			return b.at.Compare(a.at)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	for i, item := range items {
		entries[i] = item.entry
	}
}

// ParseTimestamp parses a display timestamp with the first matching layout.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
