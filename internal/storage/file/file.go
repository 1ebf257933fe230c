// Package file stores each collection as a JSON file in a directory.
//
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so readers see either the old file or the new one.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/JonMunkholm/roster/internal/core"
)

// Backend keeps collections under the root of a billy filesystem.
type Backend struct {
	fs billy.Filesystem
}

// Open returns a backend rooted at dir, creating the directory if needed.
func Open(dir string) (*Backend, error) {
	if dir == "" {
		return nil, errors.New("storage path is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return New(osfs.New(dir)), nil
}

// New returns a backend on an existing filesystem.
func New(fs billy.Filesystem) *Backend {
	return &Backend{fs: fs}
}

func fileName(c core.Collection) string {
	return string(c) + ".json"
}

// Load reads a collection file. A missing file is an absent collection.
func (b *Backend) Load(ctx context.Context, c core.Collection) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := util.ReadFile(b.fs, fileName(c))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", fileName(c), err)
	}
	return data, nil
}

// Save writes the collection to a temp file and renames it into place.
func (b *Backend) Save(ctx context.Context, c core.Collection, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := b.fs.TempFile("", "."+string(c)+"-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := b.fs.Rename(tmpName, fileName(c)); err != nil {
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}

// Delete removes a collection file. A missing file is not an error.
func (b *Backend) Delete(ctx context.Context, c core.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.fs.Remove(fileName(c)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", fileName(c), err)
	}
	return nil
}

var _ core.Backend = (*Backend)(nil)
