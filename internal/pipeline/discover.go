package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// File is one discovered input file.
type File struct {
	// Path is the location on disk.
	Path string
	// Rel is the path relative to the input root. Quarantined files keep
	// this layout under the quarantine directory.
	Rel string
}

// Discover walks the input tree and returns every regular file in lexical
// order. Hidden files and hidden directories are skipped entirely.
func Discover(root string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, File{Path: path, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	return files, nil
}
