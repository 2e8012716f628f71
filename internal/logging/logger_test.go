package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pseudonym/internal/config"
	"pseudonym/internal/logging"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.log")

	log, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "text",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.Info("processed file", "path", "a/b.pds")
	log.Debug("hidden at info level")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "processed file") {
		t.Fatalf("info line missing from log: %q", content)
	}
	if strings.Contains(content, "hidden at info level") {
		t.Fatal("debug line leaked at info level")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigCreatesLogDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	log, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	log.Info("hello")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "pseudonym.log"))
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("expected json log line, got %q", string(data))
	}
}
