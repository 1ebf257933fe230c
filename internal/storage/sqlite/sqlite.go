// Package sqlite stores collections as rows of a single SQLite table.
//
// Each collection is one row keyed by name; a save is a single upsert, which
// SQLite applies atomically.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/storage/sqlite/migrations"
	"github.com/JonMunkholm/roster/internal/storage/sqlitemigrate"
)

// Backend is a SQLite-backed collection store.
type Backend struct {
	db *sql.DB
}

// Open opens (creating if needed) and migrates the database at path.
func Open(ctx context.Context, path string) (*Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.Apply(ctx, db, migrations.FS, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Backend{db: db}, nil
}

// Close releases the database handle.
func (b *Backend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Ping checks the database is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Load returns the stored payload, or nil when the collection has no row.
func (b *Backend) Load(ctx context.Context, c core.Collection) ([]byte, error) {
	var payload string
	err := b.db.QueryRowContext(ctx,
		`SELECT payload FROM collections WHERE name = ?`, string(c),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return []byte(payload), nil
}

// Save upserts the collection row.
func (b *Backend) Save(ctx context.Context, c core.Collection, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO collections (name, payload, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		    payload = excluded.payload,
		    updated_at = excluded.updated_at`,
		string(c), string(data), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

// Delete removes the collection row.
func (b *Backend) Delete(ctx context.Context, c core.Collection) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, string(c)); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

var _ core.Backend = (*Backend)(nil)
