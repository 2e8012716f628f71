// Package links loads the external invitation-to-serial table and
// reconciles it against the discovered accessions in the identity index.
package links

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Row is one links-file entry: an invitation fragment and the serial it
// maps to.
type Row struct {
	Invitation string
	Serial     string
}

// Load reads a links file: delimited rows of (invitation fragment, serial),
// optionally preceded by a header row. Rows without exactly two fields are
// a parse error; the file order is preserved because the resolver's
// duplicate handling is order-sensitive.
func Load(path string, delimiter rune, skipHeader bool) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open links file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse links file: %w", err)
	}
	if skipHeader && len(records) > 0 {
		records = records[1:]
	}

	rows := make([]Row, 0, len(records))
	for i, record := range records {
		if len(record) != 2 {
			return nil, fmt.Errorf("links row %d: expected 2 fields, got %d", i+1, len(record))
		}
		invitation := strings.TrimSpace(record[0])
		serial := strings.TrimSpace(record[1])
		if invitation == "" || serial == "" {
			return nil, fmt.Errorf("links row %d: empty invitation or serial", i+1)
		}
		rows = append(rows, Row{Invitation: invitation, Serial: serial})
	}
	return rows, nil
}
