package links_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"pseudonym/internal/links"
	"pseudonym/internal/logging"
	"pseudonym/internal/testsupport"
)

func writeLinks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "links.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRows(t *testing.T) {
	path := writeLinks(t, "invitation;serial\nBF8PC1G;abc123\nZZZ01;def456\n")
	rows, err := links.Load(path, ';', true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Invitation != "BF8PC1G" || rows[0].Serial != "abc123" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
}

func TestLoadRejectsShortRows(t *testing.T) {
	path := writeLinks(t, "BF8PC1G\n")
	if _, err := links.Load(path, ',', false); err == nil {
		t.Fatal("expected error for row with one field")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := links.Load(filepath.Join(t.TempDir(), "absent.csv"), ',', false); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolveAssignsBySubstring(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)
	ctx := context.Background()

	if err := store.RegisterAccession(ctx, "R9BF8PC1GE"); err != nil {
		t.Fatal(err)
	}

	resolver := &links.Resolver{Store: store, Log: logging.NewNop()}
	stats, err := resolver.Resolve(ctx, []links.Row{{Invitation: "BF8PC1G", Serial: "abc123"}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if stats.Assigned != 1 {
		t.Fatalf("assigned = %d", stats.Assigned)
	}

	serial, err := store.SerialFor(ctx, "R9BF8PC1GE")
	if err != nil {
		t.Fatalf("SerialFor failed: %v", err)
	}
	if serial != "abc123" {
		t.Fatalf("serial = %q", serial)
	}
}

func TestResolveFirstDuplicateWins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)
	ctx := context.Background()

	if err := store.RegisterAccession(ctx, "R9BF8PC1GE"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	resolver := &links.Resolver{Store: store, Log: log}

	stats, err := resolver.Resolve(ctx, []links.Row{
		{Invitation: "BF8PC1G", Serial: "first"},
		{Invitation: "BF8PC1G", Serial: "second"},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if stats.Assigned != 1 || stats.Duplicates != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	serial, err := store.SerialFor(ctx, "R9BF8PC1GE")
	if err != nil {
		t.Fatal(err)
	}
	if serial != "first" {
		t.Fatalf("expected first mapping to win, got %q", serial)
	}
	if !bytes.Contains(buf.Bytes(), []byte("multiple times")) {
		t.Fatal("expected duplicate warning in log")
	}
}

func TestResolveUnresolvedFragment(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)
	ctx := context.Background()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	resolver := &links.Resolver{Store: store, Log: log}

	stats, err := resolver.Resolve(ctx, []links.Row{{Invitation: "NOBODY", Serial: "x"}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if stats.Unresolved != 1 || stats.Assigned != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !bytes.Contains(buf.Bytes(), []byte("no accession number found")) {
		t.Fatal("expected unresolved warning in log")
	}
}
