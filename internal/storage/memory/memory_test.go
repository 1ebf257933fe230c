package memory

import (
	"context"
	"testing"

	"github.com/JonMunkholm/roster/internal/core"
)

func TestBackend_LoadMissing(t *testing.T) {
	b := New()
	got, err := b.Load(context.Background(), core.CollectionIdentities)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Load missing = %q, want nil", got)
	}
}

func TestBackend_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	b := New()

	data := []byte(`[{"name":"A","email":"a@x.com"}]`)
	if err := b.Save(ctx, core.CollectionIdentities, data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the caller's slice must not change the stored value.
	data[0] = 'X'

	got, err := b.Load(ctx, core.CollectionIdentities)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `[{"name":"A","email":"a@x.com"}]` {
		t.Errorf("Load = %q", got)
	}

	if err := b.Delete(ctx, core.CollectionIdentities); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := b.Delete(ctx, core.CollectionIdentities); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	got, _ = b.Load(ctx, core.CollectionIdentities)
	if got != nil {
		t.Errorf("Load after Delete = %q, want nil", got)
	}
}

func TestBackend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New()
	if err := b.Save(ctx, core.CollectionAttendance, []byte("[]")); err != context.Canceled {
		t.Errorf("Save with cancelled ctx = %v, want context.Canceled", err)
	}
}
