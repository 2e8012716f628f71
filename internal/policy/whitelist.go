package policy

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"pseudonym/internal/dataset"
)

// WhiteList is the immutable set of tags retained with their values. It is
// loaded once at startup and never mutated during a run.
type WhiteList struct {
	tags map[dataset.Tag]struct{}
}

// NewWhiteList builds a whitelist from explicit tags.
func NewWhiteList(tags ...dataset.Tag) *WhiteList {
	return &WhiteList{tags: tagSet(tags...)}
}

// Contains reports whether tag is whitelisted.
func (w *WhiteList) Contains(tag dataset.Tag) bool {
	if w == nil {
		return false
	}
	_, ok := w.tags[tag]
	return ok
}

// Len returns the number of whitelisted tags.
func (w *WhiteList) Len() int {
	if w == nil {
		return 0
	}
	return len(w.tags)
}

// LoadWhiteList reads a whitelist file: CSV rows each holding one
// "(gggg,eeee)" hex tag, optionally preceded by a header row.
func LoadWhiteList(path string, skipHeader bool) (*WhiteList, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open whitelist: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse whitelist: %w", err)
	}
	if skipHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	list := &WhiteList{tags: make(map[dataset.Tag]struct{}, len(rows))}
	for i, row := range rows {
		joined := strings.TrimSpace(strings.Join(row, ","))
		if joined == "" {
			continue
		}
		tag, err := dataset.ParseTag(joined)
		if err != nil {
			return nil, fmt.Errorf("whitelist row %d: %w", i+1, err)
		}
		list.tags[tag] = struct{}{}
	}
	return list, nil
}
