package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pseudonym/internal/config"
)

const markerName = "index.ready"

// Marker records that the identity index was built for the current input
// set. Its presence lets later runs skip discovery and link resolution.
type Marker struct {
	RunID   string
	Written time.Time
}

// MarkerPath returns the sentinel marker location for a config.
func MarkerPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.StoreDir, markerName)
}

// WriteMarker records a completed index build.
func WriteMarker(path, runID string) error {
	content := fmt.Sprintf("%s %s\n", runID, time.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write index marker: %w", err)
	}
	return nil
}

// ReadMarker returns the marker at path, or nil when absent.
func ReadMarker(path string) (*Marker, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index marker: %w", err)
	}

	fields := strings.Fields(string(data))
	marker := &Marker{}
	if len(fields) > 0 {
		marker.RunID = fields[0]
	}
	if len(fields) > 1 {
		if ts, err := time.Parse(time.RFC3339, fields[1]); err == nil {
			marker.Written = ts
		}
	}
	return marker, nil
}

// ClearMarker removes the marker, forcing the next run to rebuild the
// index. Missing markers are not an error.
func ClearMarker(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear index marker: %w", err)
	}
	return nil
}
