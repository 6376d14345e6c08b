package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte("verified copy content")
	if err := os.WriteFile(src, content, 0o640); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("copy must keep the source: %v", err)
	}
}

func TestCopyFileVerifiedRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileVerified(src, dst); !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "old" {
		t.Fatalf("existing destination was modified: %q", got)
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.bin")
	if err := CopyFileVerified(filepath.Join(dir, "nonexistent"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("expected no destination after failure, got %v", err)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "title_4.mkv")
	dst := filepath.Join(dir, "E1.mkv")
	if err := os.WriteFile(src, []byte("episode"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if exists, _ := Exists(src); exists {
		t.Fatal("source should be gone after move")
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "episode" {
		t.Fatalf("unexpected destination: %q %v", got, err)
	}
}

func TestMoveFileRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mkv")
	dst := filepath.Join(dir, "b.mkv")
	for _, p := range []string{src, dst} {
		if err := os.WriteFile(p, []byte(filepath.Base(p)), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := MoveFile(src, dst); !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "b.mkv" {
		t.Fatalf("destination overwritten: %q", got)
	}
}

func TestRenameNoReplaceKeepsExistingEntries(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "title_4.mkv")
	if err := os.WriteFile(src, []byte("episode"), 0o644); err != nil {
		t.Fatal(err)
	}
	occupied := filepath.Join(dir, "E1.mkv")
	if err := os.WriteFile(occupied, []byte("other"), 0o644); err != nil {
		t.Fatal(err)
	}
	dangling := filepath.Join(dir, "E2.mkv")
	if err := os.Symlink(filepath.Join(dir, "missing"), dangling); err != nil {
		t.Fatal(err)
	}

	for name, rename := range map[string]func(string, string) error{
		"atomic":  renameNoReplace,
		"checked": renameChecked,
	} {
		for _, dst := range []string{occupied, dangling} {
			if err := rename(src, dst); !errors.Is(err, ErrDestinationExists) {
				t.Fatalf("%s rename onto %s: expected ErrDestinationExists, got %v", name, filepath.Base(dst), err)
			}
		}
	}
	if got, _ := os.ReadFile(occupied); string(got) != "other" {
		t.Fatalf("destination overwritten: %q", got)
	}
	if _, err := os.Lstat(dangling); err != nil {
		t.Fatalf("expected symlink kept: %v", err)
	}
	if got, _ := os.ReadFile(src); string(got) != "episode" {
		t.Fatalf("source changed: %q", got)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	dangling := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "missing"), dangling); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if exists, err := Exists(dangling); err != nil || !exists {
		t.Fatalf("dangling symlink should count as existing: %v %v", exists, err)
	}
	if exists, err := Exists(filepath.Join(dir, "nope")); err != nil || exists {
		t.Fatalf("missing path reported as existing: %v %v", exists, err)
	}
}
