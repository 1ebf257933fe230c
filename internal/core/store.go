package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/JonMunkholm/roster/internal/logging"
)

// DefaultImportBatchSize is how many imported identities are buffered before
// the collection is written back.
const DefaultImportBatchSize = 500

// Store owns the identity and attendance collections.
//
// Each collection has its own mutex. A mutation holds it across the whole
// load-modify-save cycle, so concurrent callers never interleave partial
// updates. No lock spans both collections: attendance only reads identities.
type Store struct {
	backend   Backend
	observer  Observer
	limiter   *ImportLimiter
	batchSize int

	identitiesMu sync.Mutex
	attendanceMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithObserver sets the receiver of store events.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithImportLimiter bounds concurrent bulk imports.
func WithImportLimiter(l *ImportLimiter) Option {
	return func(s *Store) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithImportBatchSize sets how many imported rows are written per save.
func WithImportBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewStore creates a Store on top of a persistence backend.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		observer:  nopObserver{},
		limiter:   NewImportLimiter(DefaultMaxConcurrentImports, DefaultImportWait),
		batchSize: DefaultImportBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportLimiter returns the limiter guarding bulk imports.
func (s *Store) ImportLimiter() *ImportLimiter {
	return s.limiter
}

// loadCollection reads and decodes a collection. Missing data is an empty
// collection. Data that does not decode is also treated as empty: the problem
// is logged and counted, never returned.
func loadCollection[T any](ctx context.Context, s *Store, c Collection) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.backend.Load(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c, err)
	}

	records := make([]T, 0)
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}

	if err := json.Unmarshal(data, &records); err != nil {
		logging.FromContext(ctx).Warn("persisted collection is unreadable, treating as empty",
			"collection", c,
			"bytes", len(data),
			"error", err,
		)
		s.observer.CollectionRecovered(c)
		return make([]T, 0), nil
	}
	if records == nil {
		records = make([]T, 0)
	}
	return records, nil
}

// saveCollection encodes and writes a whole collection.
func saveCollection[T any](ctx context.Context, s *Store, c Collection, records []T) error {
	if records == nil {
		records = make([]T, 0)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	if err := s.backend.Save(ctx, c, data); err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	return nil
}

// clearCollection removes a collection. Clearing an empty collection is not an error.
func (s *Store) clearCollection(ctx context.Context, c Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, c); err != nil {
		return fmt.Errorf("clear %s: %w", c, err)
	}
	s.observer.CollectionCleared(c)
	logging.FromContext(ctx).Info("collection cleared", "collection", c)
	return nil
}
