// Package validate audits a finished output tree: every dataset under
// output/<serial>/ must hold only whitelisted, blanked-required,
// pixel-module, audit, or allowed file-meta attributes, with its
// accession attribute equal to the serial it is filed under. It is the
// independent check that the pseudonymization pass left nothing behind.
package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"pseudonym/internal/config"
	"pseudonym/internal/dataset"
	"pseudonym/internal/pipeline"
	"pseudonym/internal/policy"
)

// Violation is one audit finding in one output file.
type Violation struct {
	// File is the path relative to the output root.
	File   string
	Detail string
}

// Report aggregates the findings of one validation pass.
type Report struct {
	Checked    int
	Violations []Violation
}

// OK reports whether the pass found a fully clean output tree.
func (r Report) OK() bool { return len(r.Violations) == 0 }

// Validator audits output trees.
type Validator struct {
	cfg       *config.Config
	log       *slog.Logger
	codec     dataset.Codec
	whitelist *policy.WhiteList
}

// New loads the whitelist and assembles a validator.
func New(cfg *config.Config, log *slog.Logger, codec dataset.Codec) (*Validator, error) {
	whitelist, err := policy.LoadWhiteList(cfg.WhiteList.File, cfg.WhiteList.SkipHeader)
	if err != nil {
		return nil, err
	}
	return &Validator{cfg: cfg, log: log, codec: codec, whitelist: whitelist}, nil
}

// Run walks the output tree through a worker pool and audits every file.
// Findings are sorted by file so reports are stable across runs.
func (v *Validator) Run(ctx context.Context) (Report, error) {
	files, err := pipeline.Discover(v.cfg.Paths.OutputDir)
	if err != nil {
		return Report{}, err
	}

	workers := v.cfg.Pipeline.Workers
	if workers < 1 {
		workers = 1
	}

	work := make(chan pipeline.File)
	findings := make(chan []Violation)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range work {
				select {
				case <-ctx.Done():
					return
				default:
				}
				findings <- v.auditFile(f)
			}
		}()
	}

	go func() {
		defer close(work)
		for _, f := range files {
			select {
			case work <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(findings)
	}()

	report := Report{Checked: len(files)}
	for batch := range findings {
		report.Violations = append(report.Violations, batch...)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	sort.Slice(report.Violations, func(i, j int) bool {
		if report.Violations[i].File != report.Violations[j].File {
			return report.Violations[i].File < report.Violations[j].File
		}
		return report.Violations[i].Detail < report.Violations[j].Detail
	})

	v.log.Info("validated output tree",
		"checked", report.Checked,
		"violations", len(report.Violations))
	return report, nil
}

// auditFile checks one output file and returns its violations.
func (v *Validator) auditFile(f pipeline.File) []Violation {
	var violations []Violation
	flag := func(format string, args ...any) {
		violations = append(violations, Violation{File: f.Rel, Detail: fmt.Sprintf(format, args...)})
	}

	ds, err := v.codec.Read(f.Path)
	if errors.Is(err, dataset.ErrNotDataset) {
		flag("not a dataset file")
		return violations
	}
	if err != nil {
		flag("unreadable: %v", err)
		return violations
	}

	// The parent directory is the serial the file was filed under.
	serial := filepath.Base(filepath.Dir(f.Rel))
	if got := ds.Value(dataset.TagAccessionNumber); got != serial {
		flag("accession %q does not match serial directory %q", got, serial)
	}
	if got := ds.Value(dataset.TagPatientIdentityRemoved); got != "YES" {
		flag("patient identity removed = %q, want YES", got)
	}

	ds.Walk(func(e *dataset.Element) {
		switch {
		case e.Tag == dataset.TagAccessionNumber:
			// Carries the serial; audited against the directory above.
		case v.whitelist.Contains(e.Tag):
		case policy.IsAuditTag(e.Tag):
		case policy.IsPixelModule(e.Tag):
		case policy.IsRequired(e.Tag):
			if e.First() != "" {
				flag("required attribute %s carries a value", e.Tag)
			}
		default:
			flag("attribute %s is not permitted", e.Tag)
		}
	})

	ds.MetaWalk(func(e *dataset.Element) {
		if !policy.IsAllowedMeta(e.Tag) && !v.whitelist.Contains(e.Tag) {
			flag("file-meta attribute %s is not permitted", e.Tag)
		}
	})

	return violations
}
