package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
)

func TestOpen_Drivers(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		storage config.StorageConfig
	}{
		{"memory", config.StorageConfig{Driver: config.DriverMemory}},
		{"file", config.StorageConfig{Driver: config.DriverFile, Path: filepath.Join(dir, "files")}},
		{"sqlite", config.StorageConfig{Driver: config.DriverSQLite, Path: filepath.Join(dir, "nested", "roster.db")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h, err := Open(ctx, &config.Config{Storage: tt.storage})
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, h.Close()) })

			assert.Equal(t, tt.storage.Driver, h.Driver)
			require.NoError(t, h.Ping(ctx))

			data := []byte(`[{"name":"Alice","email":"alice@x.com"}]`)
			require.NoError(t, h.Backend.Save(ctx, core.CollectionIdentities, data))
			got, err := h.Backend.Load(ctx, core.CollectionIdentities)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(got))
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "redis"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestHandle_CloseNil(t *testing.T) {
	var h *Handle
	assert.NoError(t, h.Close())
}
