package admin

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/storage/memory"
)

func newAdmin(t *testing.T) (*Admin, context.Context) {
	t.Helper()
	ctx := context.Background()
	store := core.NewStore(memory.New())

	require.NoError(t, store.RegisterIdentity(ctx, "Alice", "alice@x.com"))
	require.NoError(t, store.RecordAttendance(ctx, core.AttendanceEntry{
		Name:      "Alice",
		Email:     "alice@x.com",
		Timestamp: "1/2/2026, 9:00:00 AM",
		Image:     "data:image/png;base64,AA==",
	}))
	return &Admin{Store: store}, ctx
}

func TestReset(t *testing.T) {
	tests := []struct {
		target         string
		wantIdentities int
		wantAttendance int
	}{
		{TargetIdentities, 0, 1},
		{TargetAttendance, 1, 0},
		{TargetAll, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			a, ctx := newAdmin(t)

			require.NoError(t, a.Reset(ctx, tt.target))

			ids, err := a.Store.ListIdentities(ctx)
			require.NoError(t, err)
			entries, err := a.Store.ListAttendance(ctx)
			require.NoError(t, err)
			assert.Len(t, ids, tt.wantIdentities)
			assert.Len(t, entries, tt.wantAttendance)
		})
	}
}

func TestReset_UnknownTarget(t *testing.T) {
	a, ctx := newAdmin(t)
	err := a.Reset(ctx, "everything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "everything")
}

func TestExport(t *testing.T) {
	a, ctx := newAdmin(t)

	var buf bytes.Buffer
	name, err := a.Export(ctx, TargetIdentities, &buf)
	require.NoError(t, err)
	assert.Equal(t, core.IdentitiesFilename, name)
	assert.Equal(t, "name,email\nAlice,alice@x.com", buf.String())

	buf.Reset()
	name, err = a.Export(ctx, TargetAttendance, &buf)
	require.NoError(t, err)
	assert.Equal(t, core.AttendanceFilename, name)
	assert.Equal(t, "name,email,timestamp\nAlice,alice@x.com,\"1/2/2026, 9:00:00 AM\"", buf.String())

	_, err = a.Export(ctx, TargetAll, &buf)
	assert.Error(t, err)
}

func TestExport_Empty(t *testing.T) {
	a := &Admin{Store: core.NewStore(memory.New())}
	_, err := a.Export(context.Background(), TargetIdentities, &bytes.Buffer{})
	assert.ErrorIs(t, err, core.ErrNothingToExport)
}

func TestImport(t *testing.T) {
	a, ctx := newAdmin(t)
	input := "\xEF\xBB\xBFName,Email\nBob,bob@x.com\nAlice again,ALICE@x.com\n"

	preview, err := a.Import(ctx, strings.NewReader(input), true)
	require.NoError(t, err)
	assert.True(t, preview.DryRun)
	assert.Equal(t, 1, preview.RegisteredCount)

	ids, err := a.Store.ListIdentities(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	result, err := a.Import(ctx, strings.NewReader(input), false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RegisteredCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, []string{`Row 3: User with email "ALICE@x.com" is already registered.`}, result.Errors)
}
