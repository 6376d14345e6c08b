package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"renamer/internal/probecache"
)

// MustOpenCache opens a probe cache in a temp dir and registers cleanup.
func MustOpenCache(t testing.TB) *probecache.Store {
	t.Helper()

	store, err := probecache.Open(context.Background(), filepath.Join(t.TempDir(), "probe.db"))
	if err != nil {
		t.Fatalf("probecache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
