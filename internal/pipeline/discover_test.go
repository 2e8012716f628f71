package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"pseudonym/internal/pipeline"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWalksNestedTree(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.pds"))
	touch(t, filepath.Join(root, "site-a", "study-1", "b.pds"))

	files, err := pipeline.Discover(root)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Rel != "a.pds" {
		t.Errorf("files[0].Rel = %q", files[0].Rel)
	}
	if files[1].Rel != filepath.Join("site-a", "study-1", "b.pds") {
		t.Errorf("files[1].Rel = %q", files[1].Rel)
	}
}

func TestDiscoverSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep.pds"))
	touch(t, filepath.Join(root, ".hidden.pds"))
	touch(t, filepath.Join(root, ".cache", "skip.pds"))

	files, err := pipeline.Discover(root)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(files) != 1 || files[0].Rel != "keep.pds" {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := pipeline.Discover(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing root")
	}
}
