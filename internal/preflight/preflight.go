package preflight

import (
	"fmt"

	"pseudonym/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The links file is only checked when one is configured, since index
// building without a links file is a valid (if unproductive) run.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryReadable("Input directory", cfg.Paths.InputDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Quarantine directory", cfg.Paths.QuarantineDir),
		CheckDirectoryAccess("Store directory", cfg.Paths.StoreDir),
		CheckFileReadable("Whitelist file", cfg.WhiteList.File),
	}

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Links.File != "" {
		results = append(results, CheckFileReadable("Links file", cfg.Links.File))
	}

	return results
}

// Failures filters results down to the checks that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// FirstError converts the first failed check into an error, or nil when
// every check passed.
func FirstError(results []Result) error {
	for _, r := range results {
		if !r.Passed {
			return fmt.Errorf("preflight: %s: %s", r.Name, r.Detail)
		}
	}
	return nil
}
