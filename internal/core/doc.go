// Package core holds the roster domain: registered identities, attendance
// check-ins, bulk CSV import and CSV export.
//
// It has no knowledge of HTTP or of where data is kept. Callers construct a
// [Store] over a [Backend] (see internal/storage) and use it from handlers,
// tools, or tests.
//
// # Collections
//
// Two collections are persisted, each as one encoded value:
//
//   - registeredUsers: [Identity] records, unique by case-insensitive email.
//   - attendanceHistory: [AttendanceEntry] records, each referring to a
//     registered email at the time it was written.
//
// Every mutation rewrites its whole collection under that collection's lock.
// A stored value that cannot be decoded is treated as an empty collection.
//
// # Import
//
// [Store.ImportIdentities] decodes CSV text with a Name and Email header and
// registers each valid row. Rows are independent: a bad row is reported as
// "Row N: ..." and the rest continue. N is the physical line of the row in
// the file, counting the header and blank lines.
//
//	res, err := store.ImportIdentities(ctx, text)
//	// res.RegisteredCount, res.SkippedCount, res.Errors
//
// # Error Handling
//
// Single-record operations return sentinel errors ([ErrDuplicateIdentity],
// [ErrUnknownIdentity], ...). [MapError] turns any error into a
// [UserMessage] with a support code.
package core
