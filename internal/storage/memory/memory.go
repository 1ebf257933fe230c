// Package memory provides an in-process collection backend. Data is lost when
// the process exits; it backs tests and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/JonMunkholm/roster/internal/core"
)

// Backend keeps collections in a map.
type Backend struct {
	mu   sync.RWMutex
	data map[core.Collection][]byte
}

// New returns an empty backend.
func New() *Backend {
	return &Backend{data: make(map[core.Collection][]byte)}
}

// Load returns a copy of the stored value, or nil if there is none.
func (b *Backend) Load(ctx context.Context, c core.Collection) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.data[c]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Save replaces the stored value.
func (b *Backend) Save(ctx context.Context, c core.Collection, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[c] = append([]byte(nil), data...)
	return nil
}

// Delete removes the stored value. Deleting a missing collection is a no-op.
func (b *Backend) Delete(ctx context.Context, c core.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.data, c)
	return nil
}

var _ core.Backend = (*Backend)(nil)
