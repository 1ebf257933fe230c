package file

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/roster/internal/core"
)

func TestBackend_LoadMissing(t *testing.T) {
	b := New(memfs.New())

	got, err := b.Load(context.Background(), core.CollectionIdentities)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBackend_SaveReplacesFile(t *testing.T) {
	ctx := context.Background()
	fs := memfs.New()
	b := New(fs)

	require.NoError(t, b.Save(ctx, core.CollectionIdentities, []byte(`[{"name":"A","email":"a@x.com"}]`)))
	require.NoError(t, b.Save(ctx, core.CollectionIdentities, []byte(`[]`)))

	got, err := b.Load(ctx, core.CollectionIdentities)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	raw, err := util.ReadFile(fs, "registeredUsers.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestBackend_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := New(memfs.New())

	require.NoError(t, b.Save(ctx, core.CollectionAttendance, []byte(`[]`)))
	require.NoError(t, b.Delete(ctx, core.CollectionAttendance))
	require.NoError(t, b.Delete(ctx, core.CollectionAttendance))

	got, err := b.Load(ctx, core.CollectionAttendance)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOpen_OnDisk(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	b, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, b.Save(ctx, core.CollectionIdentities, []byte(`[]`)))

	reopened, err := Open(dir)
	require.NoError(t, err)
	got, err := reopened.Load(ctx, core.CollectionIdentities)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
