// Package storage opens the collection backend selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/storage/file"
	"github.com/JonMunkholm/roster/internal/storage/memory"
	"github.com/JonMunkholm/roster/internal/storage/postgres"
	"github.com/JonMunkholm/roster/internal/storage/sqlite"
)

// pinger is implemented by backends with a connection to check.
type pinger interface {
	Ping(ctx context.Context) error
}

// Handle is an open backend plus whatever it needs released on exit.
type Handle struct {
	Backend core.Backend
	Driver  string

	close func() error
}

// Ping checks the backend connection. Backends without one always succeed.
func (h *Handle) Ping(ctx context.Context) error {
	if p, ok := h.Backend.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the backend.
func (h *Handle) Close() error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close()
}

// Open opens the backend named by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (*Handle, error) {
	driver := cfg.Storage.Driver
	path := cfg.Storage.ResolvedPath()

	switch driver {
	case config.DriverMemory:
		slog.Warn("using in-memory storage, data is lost on exit")
		return &Handle{Backend: memory.New(), Driver: driver}, nil

	case config.DriverFile:
		b, err := file.Open(path)
		if err != nil {
			return nil, err
		}
		slog.Info("using file storage", "dir", path)
		return &Handle{Backend: b, Driver: driver}, nil

	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		b, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		slog.Info("using sqlite storage", "path", path)
		return &Handle{Backend: b, Driver: driver, close: b.Close}, nil

	case config.DriverPostgres:
		b, err := postgres.Open(ctx, postgres.PoolConfig{
			URL:             cfg.Database.URL,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("connected to database", "name", postgres.DatabaseName(cfg.Database.URL))
		return &Handle{
			Backend: b,
			Driver:  driver,
			close:   func() error { b.Close(); return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
