// Package postgres stores collections in a PostgreSQL table through a pgx
// connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/roster/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Backend is a PostgreSQL-backed collection store.
type Backend struct {
	pool *pgxpool.Pool
}

// Open connects, verifies the connection and ensures the table exists.
func Open(ctx context.Context, cfg PoolConfig) (*Backend, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create collections table: %w", err)
	}
	return &Backend{pool: pool}, nil
}

// Close closes the pool.
func (b *Backend) Close() {
	if b != nil && b.pool != nil {
		b.pool.Close()
	}
}

// Ping checks the database is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

// Load returns the stored payload, or nil when the collection has no row.
func (b *Backend) Load(ctx context.Context, c core.Collection) ([]byte, error) {
	var payload string
	err := b.pool.QueryRow(ctx,
		`SELECT payload FROM collections WHERE name = $1`, string(c),
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return []byte(payload), nil
}

// Save upserts the collection row.
func (b *Backend) Save(ctx context.Context, c core.Collection, data []byte) error {
	_, err := b.pool.Exec(ctx,
		`INSERT INTO collections (name, payload, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET
		    payload = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at`,
		string(c), string(data),
	)
	if err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

// Delete removes the collection row.
func (b *Backend) Delete(ctx context.Context, c core.Collection) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM collections WHERE name = $1`, string(c)); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// DatabaseName returns the database name from a connection URL, for logging.
// It returns "" when the URL cannot be parsed.
func DatabaseName(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

var _ core.Backend = (*Backend)(nil)
