package core

import (
	"context"

	"github.com/JonMunkholm/roster/internal/csvcodec"
)

// Download names and content type for CSV exports.
const (
	IdentitiesFilename = "registered_users.csv"
	AttendanceFilename = "attendance_history.csv"
	CSVContentType     = "text/csv; charset=utf-8"
)

// ExportCollection renders records as CSV, leaving out the excluded columns.
func ExportCollection(records []csvcodec.Record, exclude ...string) string {
	return csvcodec.Encode(records, exclude...)
}

// ExportIdentities renders the registered identities for download.
func (s *Store) ExportIdentities(ctx context.Context) (Export, error) {
	ids, err := s.ListIdentities(ctx)
	if err != nil {
		return Export{}, err
	}
	if len(ids) == 0 {
		return Export{}, ErrNothingToExport
	}

	records := make([]csvcodec.Record, len(ids))
	for i, id := range ids {
		records[i] = id.CSVRecord()
	}
	return Export{
		Filename:    IdentitiesFilename,
		ContentType: CSVContentType,
		Content:     ExportCollection(records),
	}, nil
}

// ExportAttendance renders the attendance history for download. Captured
// images are left out.
func (s *Store) ExportAttendance(ctx context.Context) (Export, error) {
	entries, err := s.ListAttendance(ctx)
	if err != nil {
		return Export{}, err
	}
	if len(entries) == 0 {
		return Export{}, ErrNothingToExport
	}

	records := make([]csvcodec.Record, len(entries))
	for i, e := range entries {
		records[i] = e.CSVRecord()
	}
	return Export{
		Filename:    AttendanceFilename,
		ContentType: CSVContentType,
		Content:     ExportCollection(records, FieldImage),
	}, nil
}
