package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"pseudonym/internal/config"
)

// defaultWhitelist keeps the attributes test datasets carry, so that a
// clean dataset survives pseudonymization with its payload intact.
const defaultWhitelist = "0008,0018\n0008,0050\n0008,0060\n0008,103E\n"

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The input directory exists and a minimal whitelist file is in place, so
// preflight checks pass without further setup.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "input")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.QuarantineDir = filepath.Join(base, "quarantine")
	cfg.Paths.StoreDir = filepath.Join(base, "store")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.WhiteList.File = filepath.Join(base, "whitelist.csv")

	if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
		t.Fatalf("create input dir: %v", err)
	}
	if err := os.WriteFile(cfg.WhiteList.File, []byte(defaultWhitelist), 0o644); err != nil {
		t.Fatalf("write whitelist: %v", err)
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWorkers sets the worker count on the test config.
func WithWorkers(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.Workers = n
	}
}

// WithModalities overrides the allowed modalities on the test config.
func WithModalities(modalities ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.Modalities = modalities
	}
}

// WithoutDuplicateSkip disables fingerprint-based duplicate skipping.
func WithoutDuplicateSkip() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.SkipDuplicates = false
	}
}

// WriteLinks writes a links file next to the other test fixtures and wires
// it into the config.
func WriteLinks(t testing.TB, cfg *config.Config, content string) {
	t.Helper()

	path := filepath.Join(filepath.Dir(cfg.WhiteList.File), "links.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write links: %v", err)
	}
	cfg.Links.File = path
}
