package core

// import.go implements the bulk identity import.
//
// The whole run holds the identity lock. Rows are validated against an
// in-memory key set seeded from the persisted collection, so a row that
// duplicates an earlier row of the same file is skipped exactly like a row
// that duplicates a stored identity. Accepted rows are buffered and written
// back every batchSize rows; a write that fails turns the buffered rows into
// row errors and the run continues with the next row.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/roster/internal/csvcodec"
	"github.com/JonMunkholm/roster/internal/logging"
)

// cancelCheckInterval is how often (in rows) a long import looks at its context.
const cancelCheckInterval = 100

// NoticeNoDataRows is set on the result of an import whose text has the
// required columns but no data rows.
const NoticeNoDataRows = "CSV file is empty or contains only headers."

// pendingRow is an accepted row waiting for the next flush.
type pendingRow struct {
	line     int
	identity Identity
}

// importRun carries the state of one import.
type importRun struct {
	store  *Store
	dryRun bool

	persisted []Identity
	known     map[string]struct{}
	pending   []pendingRow

	result ImportResult
}

// ImportIdentities registers every valid row of a CSV text that has name and
// email columns. Per-row problems are collected in the result, never
// returned. ErrMalformedImport is returned, with nothing written, when the
// columns are missing.
//
// When ctx ends mid-run the rows accepted so far are still written and the
// partial result is returned together with the context error.
func (s *Store) ImportIdentities(ctx context.Context, text string) (ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	return s.runImport(ctx, text, false)
}

// PreviewImport validates a CSV text the way ImportIdentities would, without
// writing anything. RegisteredCount is the number of rows that would be added.
func (s *Store) PreviewImport(ctx context.Context, text string) (ImportResult, error) {
	return s.runImport(ctx, text, true)
}

func (s *Store) runImport(ctx context.Context, text string, dryRun bool) (ImportResult, error) {
	start := time.Now()
	importID := uuid.NewString()
	logger := logging.WithFields(ctx, "import_id", importID, "dry_run", dryRun)

	table := csvcodec.DecodeTable(text)
	if !table.HasColumns(FieldName, FieldEmail) {
		logger.Warn("import rejected: missing name or email column")
		return ImportResult{}, ErrMalformedImport
	}

	s.identitiesMu.Lock()
	defer s.identitiesMu.Unlock()

	persisted, err := loadCollection[Identity](ctx, s, CollectionIdentities)
	if err != nil {
		return ImportResult{}, err
	}

	run := &importRun{
		store:     s,
		dryRun:    dryRun,
		persisted: persisted,
		known:     make(map[string]struct{}, len(persisted)+len(table.Rows)),
		result: ImportResult{
			ImportID: importID,
			Errors:   make([]string, 0),
			DryRun:   dryRun,
		},
	}
	for _, id := range persisted {
		run.known[emailKey(id.Email)] = struct{}{}
	}

	if len(table.Rows) == 0 {
		run.result.Notice = NoticeNoDataRows
		logger.Info("import has no data rows")
	}

	logger.Info("import started", "rows", len(table.Rows))

	var runErr error
	for i, row := range table.Rows {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}
		}

		name := strings.TrimSpace(row.Record.Value(FieldName))
		email := strings.TrimSpace(row.Record.Value(FieldEmail))
		run.accept(ctx, row.Line, name, email)
	}

	// Rows accepted before a cancellation are still written.
	run.flush(context.WithoutCancel(ctx))

	run.result.Duration = time.Since(start)
	if !dryRun {
		s.observer.ImportFinished(run.result)
	}

	logger.Info("import finished",
		"registered", run.result.RegisteredCount,
		"skipped", run.result.SkippedCount,
		"duration", run.result.Duration,
		"cancelled", runErr != nil,
	)

	return run.result, runErr
}

// accept validates one row and buffers it when it passes.
func (r *importRun) accept(ctx context.Context, line int, name, email string) {
	if name == "" || email == "" {
		r.skip(line, email, fmt.Sprintf("Row %d: Missing Name or Email.", line))
		return
	}
	if !ValidEmail(email) {
		r.skip(line, email, fmt.Sprintf("Row %d: Invalid email format for \"%s\".", line, email))
		return
	}
	key := emailKey(email)
	if _, ok := r.known[key]; ok {
		r.skip(line, email, fmt.Sprintf("Row %d: User with email \"%s\" is already registered.", line, email))
		return
	}

	r.known[key] = struct{}{}
	r.pending = append(r.pending, pendingRow{line: line, identity: Identity{Name: name, Email: email}})
	if len(r.pending) >= r.store.batchSize {
		r.flush(ctx)
	}
}

// flush writes the buffered rows. On failure the rows are reported as
// skipped and their keys released so the stored state and the key set agree.
func (r *importRun) flush(ctx context.Context) {
	if len(r.pending) == 0 {
		return
	}
	batch := r.pending
	r.pending = nil

	if r.dryRun {
		r.result.RegisteredCount += len(batch)
		return
	}

	next := make([]Identity, 0, len(r.persisted)+len(batch))
	next = append(next, r.persisted...)
	for _, p := range batch {
		next = append(next, p.identity)
	}

	if err := saveCollection(ctx, r.store, CollectionIdentities, next); err != nil {
		logging.FromContext(ctx).Error("import batch not saved",
			"import_id", r.result.ImportID,
			"rows", len(batch),
			"error", err,
		)
		for _, p := range batch {
			delete(r.known, emailKey(p.identity.Email))
			r.skip(p.line, p.identity.Email,
				fmt.Sprintf("Row %d: Could not save user with email \"%s\".", p.line, p.identity.Email))
		}
		return
	}

	r.persisted = next
	r.result.RegisteredCount += len(batch)
	for range batch {
		r.store.observer.IdentityRegistered()
	}
}

func (r *importRun) skip(line int, email, reason string) {
	r.result.SkippedCount++
	r.result.Errors = append(r.result.Errors, reason)
	r.result.RowErrors = append(r.result.RowErrors, RowError{Line: line, Email: email, Reason: reason})
}

// IsMalformedImport reports whether err rejected a whole import.
func IsMalformedImport(err error) bool {
	return errors.Is(err, ErrMalformedImport)
}
