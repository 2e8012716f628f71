package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InputDir      string `toml:"input_dir"`
	OutputDir     string `toml:"output_dir"`
	QuarantineDir string `toml:"quarantine_dir"`
	StoreDir      string `toml:"store_dir"`
	LogDir        string `toml:"log_dir"`
}

// WhiteList contains configuration for the attribute whitelist file.
type WhiteList struct {
	File       string `toml:"file"`
	SkipHeader bool   `toml:"skip_header"`
}

// Links contains configuration for the invitation-to-serial links file.
type Links struct {
	File       string `toml:"file"`
	Delimiter  string `toml:"delimiter"`
	SkipHeader bool   `toml:"skip_header"`
}

// Pipeline contains worker and policy knobs for a run.
type Pipeline struct {
	Workers        int      `toml:"workers"`
	Modalities     []string `toml:"modalities"`
	SkipDuplicates bool     `toml:"skip_duplicates"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for a pseudonymization run.
type Config struct {
	Paths     Paths     `toml:"paths"`
	WhiteList WhiteList `toml:"whitelist"`
	Links     Links     `toml:"links"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pseudonym/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. It also reports the
// resolved path and whether a file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("pseudonym.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	paths := map[string]*string{
		"paths.input_dir":      &c.Paths.InputDir,
		"paths.output_dir":     &c.Paths.OutputDir,
		"paths.quarantine_dir": &c.Paths.QuarantineDir,
		"paths.store_dir":      &c.Paths.StoreDir,
		"paths.log_dir":        &c.Paths.LogDir,
		"whitelist.file":       &c.WhiteList.File,
		"links.file":           &c.Links.File,
	}
	for key, value := range paths {
		if strings.TrimSpace(*value) == "" {
			continue
		}
		if *value, err = expandPath(*value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	if strings.TrimSpace(c.Links.Delimiter) == "" {
		c.Links.Delimiter = defaultLinksDelimiter
	}
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = defaultWorkers
	}
	if len(c.Pipeline.Modalities) == 0 {
		c.Pipeline.Modalities = append([]string(nil), defaultModalities...)
	} else {
		modalities := make([]string, 0, len(c.Pipeline.Modalities))
		seen := make(map[string]struct{}, len(c.Pipeline.Modalities))
		for _, m := range c.Pipeline.Modalities {
			normalized := strings.ToLower(strings.TrimSpace(m))
			if normalized == "" {
				continue
			}
			if _, ok := seen[normalized]; ok {
				continue
			}
			seen[normalized] = struct{}{}
			modalities = append(modalities, normalized)
		}
		c.Pipeline.Modalities = modalities
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "text":
		c.Logging.Format = "text"
	case "json":
	default:
		c.Logging.Format = "text"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.QuarantineDir, c.Paths.StoreDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LinksDelimiter returns the configured links-file delimiter as a rune.
// normalize/Validate guarantee it is a single rune.
func (c *Config) LinksDelimiter() rune {
	return []rune(c.Links.Delimiter)[0]
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
