package index_test

import (
	"os"
	"path/filepath"
	"testing"

	"pseudonym/internal/index"
	"pseudonym/internal/testsupport"
)

func TestMarkerRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	path := index.MarkerPath(cfg)

	marker, err := index.ReadMarker(path)
	if err != nil {
		t.Fatalf("ReadMarker failed: %v", err)
	}
	if marker != nil {
		t.Fatal("expected no marker before write")
	}

	if err := index.WriteMarker(path, "run-42"); err != nil {
		t.Fatalf("WriteMarker failed: %v", err)
	}
	marker, err = index.ReadMarker(path)
	if err != nil {
		t.Fatalf("ReadMarker failed: %v", err)
	}
	if marker == nil || marker.RunID != "run-42" {
		t.Fatalf("unexpected marker: %+v", marker)
	}
	if marker.Written.IsZero() {
		t.Fatal("marker timestamp not recorded")
	}

	if err := index.ClearMarker(path); err != nil {
		t.Fatalf("ClearMarker failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("marker still present after clear")
	}
	// Clearing twice is fine.
	if err := index.ClearMarker(path); err != nil {
		t.Fatalf("second ClearMarker failed: %v", err)
	}
}

func TestReadMarkerToleratesLegacyContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.ready")
	if err := os.WriteFile(path, []byte("bare-run-id"), 0o644); err != nil {
		t.Fatal(err)
	}

	marker, err := index.ReadMarker(path)
	if err != nil {
		t.Fatalf("ReadMarker failed: %v", err)
	}
	if marker == nil || marker.RunID != "bare-run-id" {
		t.Fatalf("unexpected marker: %+v", marker)
	}
}
