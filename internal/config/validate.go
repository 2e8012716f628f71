package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLinks(); err != nil {
		return err
	}
	return c.validatePipeline()
}

func (c *Config) validatePaths() error {
	for key, value := range map[string]string{
		"paths.input_dir":      c.Paths.InputDir,
		"paths.output_dir":     c.Paths.OutputDir,
		"paths.quarantine_dir": c.Paths.QuarantineDir,
		"paths.store_dir":      c.Paths.StoreDir,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}

	// Writing output or quarantine inside the input tree would feed the
	// pipeline its own results on a re-run.
	for key, dir := range map[string]string{
		"paths.output_dir":     c.Paths.OutputDir,
		"paths.quarantine_dir": c.Paths.QuarantineDir,
	} {
		if dir == c.Paths.InputDir || strings.HasPrefix(dir, c.Paths.InputDir+"/") {
			return fmt.Errorf("%s must not be inside paths.input_dir", key)
		}
	}
	return nil
}

func (c *Config) validateLinks() error {
	if len([]rune(c.Links.Delimiter)) != 1 {
		return errors.New("links.delimiter must be a single character")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers < 1 {
		return errors.New("pipeline.workers must be at least 1")
	}
	if len(c.Pipeline.Modalities) == 0 {
		return errors.New("pipeline.modalities must include at least one modality")
	}
	return nil
}
