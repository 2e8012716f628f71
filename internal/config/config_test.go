package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pseudonym/internal/config"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := config.Default()
	if cfg.Pipeline.Workers != 1 {
		t.Fatalf("expected default workers 1, got %d", cfg.Pipeline.Workers)
	}
	if !cfg.Pipeline.SkipDuplicates {
		t.Fatal("expected duplicate skipping on by default")
	}
	if len(cfg.Pipeline.Modalities) != 2 {
		t.Fatalf("expected default modalities mr,ct; got %v", cfg.Pipeline.Modalities)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	base := t.TempDir()
	content := `
[paths]
input_dir = "` + base + `/in"
output_dir = "` + base + `/out"
quarantine_dir = "` + base + `/quarantine"
store_dir = "` + base + `/store"
log_dir = "` + base + `/logs"

[pipeline]
workers = 4
modalities = ["MR", " ct ", "mr"]

[links]
delimiter = ";"
`
	path := writeConfig(t, content)
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q %v", resolved, exists)
	}
	if cfg.Pipeline.Workers != 4 {
		t.Fatalf("workers = %d", cfg.Pipeline.Workers)
	}
	if len(cfg.Pipeline.Modalities) != 2 || cfg.Pipeline.Modalities[0] != "mr" || cfg.Pipeline.Modalities[1] != "ct" {
		t.Fatalf("modalities not normalized: %v", cfg.Pipeline.Modalities)
	}
	if cfg.LinksDelimiter() != ';' {
		t.Fatalf("delimiter = %q", cfg.LinksDelimiter())
	}
	if cfg.Logging.Format != "text" || cfg.Logging.Level != "info" {
		t.Fatalf("logging defaults not applied: %+v", cfg.Logging)
	}
}

func TestLoadRejectsOutputInsideInput(t *testing.T) {
	base := t.TempDir()
	content := `
[paths]
input_dir = "` + base + `/in"
output_dir = "` + base + `/in/out"
quarantine_dir = "` + base + `/quarantine"
store_dir = "` + base + `/store"
`
	path := writeConfig(t, content)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for output inside input")
	} else if !strings.Contains(err.Error(), "inside paths.input_dir") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsBadDelimiter(t *testing.T) {
	base := t.TempDir()
	content := `
[paths]
input_dir = "` + base + `/in"
output_dir = "` + base + `/out"
quarantine_dir = "` + base + `/quarantine"
store_dir = "` + base + `/store"

[links]
delimiter = "::"
`
	path := writeConfig(t, content)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for multi-rune delimiter")
	}
}

func TestLoadRejectsZeroWorkers(t *testing.T) {
	base := t.TempDir()
	content := `
[paths]
input_dir = "` + base + `/in"
output_dir = "` + base + `/out"
quarantine_dir = "` + base + `/quarantine"
store_dir = "` + base + `/store"

[pipeline]
workers = -1
`
	path := writeConfig(t, content)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for negative workers")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "in")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.QuarantineDir = filepath.Join(base, "quarantine")
	cfg.Paths.StoreDir = filepath.Join(base, "store")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.QuarantineDir, cfg.Paths.StoreDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("directory %q not created: %v", dir, err)
		}
	}
	if _, err := os.Stat(cfg.Paths.InputDir); err == nil {
		t.Fatal("input directory should not be created")
	}
}
