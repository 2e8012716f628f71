package links

import (
	"context"
	"fmt"
	"log/slog"

	"pseudonym/internal/index"
)

// Stats summarizes one resolution pass.
type Stats struct {
	Assigned   int
	Duplicates int
	Unresolved int
}

// Resolver assigns serials to discovered accessions by invitation-fragment
// substring match.
type Resolver struct {
	Store *index.Store
	Log   *slog.Logger
}

// Resolve processes rows strictly in file order. Repeated invitation
// fragments are logged and skipped, first occurrence wins. Fragments that
// match no accession are logged and skipped; the accession stays unmapped
// and is quarantined later at lookup time.
func (r *Resolver) Resolve(ctx context.Context, rows []Row) (Stats, error) {
	var stats Stats
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		if _, dup := seen[row.Invitation]; dup {
			r.Log.Warn("invitation number appears in links file multiple times",
				"invitation", row.Invitation)
			stats.Duplicates++
			continue
		}
		seen[row.Invitation] = struct{}{}

		accession, err := r.Store.SearchAccession(ctx, row.Invitation)
		if err != nil {
			return stats, fmt.Errorf("resolve invitation %q: %w", row.Invitation, err)
		}
		if accession == "" {
			r.Log.Warn("no accession number found for invitation number",
				"invitation", row.Invitation)
			stats.Unresolved++
			continue
		}

		if err := r.Store.AssignSerial(ctx, accession, row.Serial); err != nil {
			return stats, fmt.Errorf("assign serial for invitation %q: %w", row.Invitation, err)
		}
		stats.Assigned++
	}

	r.Log.Info("resolved links file",
		"assigned", stats.Assigned,
		"duplicates", stats.Duplicates,
		"unresolved", stats.Unresolved)
	return stats, nil
}
