package discovery_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"renamer/internal/discovery"
	"renamer/internal/services"
	"renamer/internal/testsupport"
)

func relPaths(t *testing.T, root string, opts discovery.Options) []string {
	t.Helper()
	candidates, err := discovery.Walk(context.Background(), root, opts)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.RelPath)
	}
	return out
}

func TestWalkFiltersExtensionsAndHiddenEntries(t *testing.T) {
	root := testsupport.WriteTree(t, t.TempDir(),
		"Disc 1/title_1.mkv",
		"Disc 1/title_2.MKV",
		"Disc 1/notes.txt",
		"Disc 1/.title_3.mkv",
		".cache/title_9.mkv",
		"Disc 2/title_1.m2ts",
		"top.mp4",
	)
	got := relPaths(t, root, discovery.Options{Extensions: []string{"mkv", ".M2TS", ".mp4"}})
	want := []string{"Disc 1/title_1.mkv", "Disc 1/title_2.MKV", "Disc 2/title_1.m2ts", "top.mp4"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected files:\n got %v\nwant %v", got, want)
	}

	withHidden := relPaths(t, root, discovery.Options{Extensions: []string{".mkv"}, IncludeHidden: true})
	if !slices.Contains(withHidden, ".cache/title_9.mkv") || !slices.Contains(withHidden, "Disc 1/.title_3.mkv") {
		t.Fatalf("expected hidden files when requested, got %v", withHidden)
	}

	all := relPaths(t, root, discovery.Options{})
	if !slices.Contains(all, "Disc 1/notes.txt") {
		t.Fatalf("empty extension list should accept every file, got %v", all)
	}
}

func TestWalkPopulatesCandidates(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "Disc 1", "title_1.mkv"), 2048)
	candidates, err := discovery.Walk(context.Background(), root, discovery.Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.Size != 2048 || c.Dir != "Disc 1" || c.Name != "title_1.mkv" || c.Probed {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if !filepath.IsAbs(c.Path) {
		t.Fatalf("expected absolute path, got %q", c.Path)
	}
}

func TestWalkSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "elsewhere.mkv")
	testsupport.WriteFile(t, target, 10)
	if err := os.Symlink(target, filepath.Join(root, "link.mkv")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if got := relPaths(t, root, discovery.Options{}); len(got) != 0 {
		t.Fatalf("expected symlink to be ignored, got %v", got)
	}
}

func TestWalkRootErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	if _, err := discovery.Walk(context.Background(), missing, discovery.Options{}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	file := filepath.Join(t.TempDir(), "file.mkv")
	testsupport.WriteFile(t, file, 1)
	if _, err := discovery.Walk(context.Background(), file, discovery.Options{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for file root, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root := testsupport.WriteTree(t, t.TempDir(), "a.mkv")
	if _, err := discovery.Walk(ctx, root, discovery.Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
