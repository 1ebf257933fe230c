package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ImportExportReset(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", filepath.Join(dir, "data"))
	t.Setenv("LOG_LEVEL", "error")

	csvPath := filepath.Join(dir, "users.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Name,Email\nAlice,alice@x.com\nBob,bad\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"import", csvPath}, &out))
	assert.Contains(t, out.String(), `"registeredCount": 1`)
	assert.Contains(t, out.String(), `Row 3: Invalid email format for \"bad\".`)

	out.Reset()
	require.NoError(t, run([]string{"export", "identities"}, &out))
	assert.Equal(t, "name,email\nAlice,alice@x.com", out.String())

	exportPath := filepath.Join(dir, "out.csv")
	require.NoError(t, run([]string{"export", "-o", exportPath, "identities"}, &out))
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Equal(t, "name,email\nAlice,alice@x.com", string(data))

	err = run([]string{"reset", "identities"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation required")

	out.Reset()
	require.NoError(t, run([]string{"reset", "-yes", "identities"}, &out))
	assert.Equal(t, "reset identities\n", out.String())

	err = run([]string{"export", "identities"}, &out)
	require.Error(t, err)
}

func TestRun_Usage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	assert.Error(t, run(nil, &out))
	assert.Error(t, run([]string{"frobnicate"}, &out))
	assert.Error(t, run([]string{"export"}, &out))
}
