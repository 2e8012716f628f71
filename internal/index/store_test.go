package index_test

import (
	"context"
	"errors"
	"testing"

	"pseudonym/internal/index"
	"pseudonym/internal/testsupport"
)

func TestRegisterAccessionIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)
	ctx := context.Background()

	if err := store.RegisterAccession(ctx, "R9BF8PC1GE"); err != nil {
		t.Fatalf("RegisterAccession failed: %v", err)
	}
	if err := store.AssignSerial(ctx, "R9BF8PC1GE", "abc123"); err != nil {
		t.Fatalf("AssignSerial failed: %v", err)
	}
	// Re-registering must not clobber the assigned serial.
	if err := store.RegisterAccession(ctx, "R9BF8PC1GE"); err != nil {
		t.Fatalf("re-register failed: %v", err)
	}

	serial, err := store.SerialFor(ctx, "R9BF8PC1GE")
	if err != nil {
		t.Fatalf("SerialFor failed: %v", err)
	}
	if serial != "abc123" {
		t.Fatalf("serial = %q, want abc123", serial)
	}
}

func TestSerialForUnassigned(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)
	ctx := context.Background()

	if err := store.RegisterAccession(ctx, "NOSERIAL01"); err != nil {
		t.Fatalf("RegisterAccession failed: %v", err)
	}
	if _, err := store.SerialFor(ctx, "NOSERIAL01"); !errors.Is(err, index.ErrNoSerial) {
		t.Fatalf("expected ErrNoSerial, got %v", err)
	}
	if _, err := store.SerialFor(ctx, "NEVERSEEN"); !errors.Is(err, index.ErrNoSerial) {
		t.Fatalf("expected ErrNoSerial for unknown accession, got %v", err)
	}
}

func TestAssignSerialRequiresRegistration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)

	if err := store.AssignSerial(context.Background(), "GHOST", "x1"); err == nil {
		t.Fatal("expected error assigning serial to unregistered accession")
	}
}

func TestSearchAccessionSubstring(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)
	ctx := context.Background()

	for _, accession := range []string{"R9BF8PC1GE", "Q0ZZZZZZZZ"} {
		if err := store.RegisterAccession(ctx, accession); err != nil {
			t.Fatalf("RegisterAccession failed: %v", err)
		}
	}

	found, err := store.SearchAccession(ctx, "BF8PC1G")
	if err != nil {
		t.Fatalf("SearchAccession failed: %v", err)
	}
	if found != "R9BF8PC1GE" {
		t.Fatalf("found %q, want R9BF8PC1GE", found)
	}

	none, err := store.SearchAccession(ctx, "MISSING")
	if err != nil {
		t.Fatalf("SearchAccession failed: %v", err)
	}
	if none != "" {
		t.Fatalf("expected no match, got %q", none)
	}
}

func TestSearchAccessionStableOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)
	ctx := context.Background()

	// Both contain "SHARED"; registration order decides.
	for _, accession := range []string{"A1SHAREDX", "B2SHAREDY"} {
		if err := store.RegisterAccession(ctx, accession); err != nil {
			t.Fatalf("RegisterAccession failed: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		found, err := store.SearchAccession(ctx, "SHARED")
		if err != nil {
			t.Fatalf("SearchAccession failed: %v", err)
		}
		if found != "A1SHAREDX" {
			t.Fatalf("expected first-registered match, got %q", found)
		}
	}
}

func TestFingerprintSetSemantics(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)
	ctx := context.Background()

	has, err := store.HasFingerprint(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("HasFingerprint failed: %v", err)
	}
	if has {
		t.Fatal("fingerprint present before registration")
	}

	for i := 0; i < 2; i++ {
		if err := store.AddFingerprint(ctx, "deadbeef"); err != nil {
			t.Fatalf("AddFingerprint failed: %v", err)
		}
	}
	has, err = store.HasFingerprint(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("HasFingerprint failed: %v", err)
	}
	if !has {
		t.Fatal("fingerprint missing after registration")
	}

	counts, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if counts.Fingerprints != 1 {
		t.Fatalf("expected 1 fingerprint, got %d", counts.Fingerprints)
	}
}

func TestStatsCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)
	ctx := context.Background()

	for _, accession := range []string{"AAA", "BBB", "CCC"} {
		if err := store.RegisterAccession(ctx, accession); err != nil {
			t.Fatalf("RegisterAccession failed: %v", err)
		}
	}
	if err := store.AssignSerial(ctx, "BBB", "s1"); err != nil {
		t.Fatalf("AssignSerial failed: %v", err)
	}

	counts, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if counts.Accessions != 3 || counts.Assigned != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestStorePersistsAcrossOpens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store, err := index.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.RegisterAccession(ctx, "PERSIST01"); err != nil {
		t.Fatalf("RegisterAccession failed: %v", err)
	}
	if err := store.AssignSerial(ctx, "PERSIST01", "z9"); err != nil {
		t.Fatalf("AssignSerial failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenIndex(t, cfg)
	serial, err := reopened.SerialFor(ctx, "PERSIST01")
	if err != nil {
		t.Fatalf("SerialFor after reopen failed: %v", err)
	}
	if serial != "z9" {
		t.Fatalf("serial = %q after reopen", serial)
	}
}
