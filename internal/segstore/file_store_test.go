package segstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreLifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "diffs")
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	if err := store.Save(ctx, sampleSet("dif_1"), time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A second store over the same dir sees the set, as a later process would.
	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	reopened.now = store.now
	loaded, err := reopened.Load(ctx, "dif_1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DocumentID != "doc-1" || len(loaded.Segments) != 1 || !loaded.CreatedAt.Equal(now) {
		t.Fatalf("unexpected set: %+v", loaded)
	}

	now = now.Add(time.Minute)
	if _, err := reopened.Load(ctx, "dif_1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after expiry error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dif_1.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected expired file removed, stat error = %v", err)
	}

	if err := store.Save(ctx, sampleSet("dif_2"), 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "dif_2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "dif_2"); err != nil {
		t.Fatalf("Delete of missing id failed: %v", err)
	}
	if _, err := store.Load(ctx, "dif_2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after delete error = %v", err)
	}
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()
	if err := store.Save(ctx, sampleSet("../escape"), time.Minute); err == nil {
		t.Fatal("expected error for id with a path separator")
	}
	if _, err := store.Load(ctx, "../escape"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load error = %v, want ErrNotFound", err)
	}
}
