package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"pseudonym/internal/config"
	"pseudonym/internal/dataset"
	"pseudonym/internal/fileutil"
	"pseudonym/internal/fingerprint"
	"pseudonym/internal/index"
	"pseudonym/internal/links"
	"pseudonym/internal/policy"
	"pseudonym/internal/preflight"
	"pseudonym/internal/quarantine"
)

// Summary reports the outcome counts of one run.
type Summary struct {
	RunID       string
	Discovered  int
	Processed   int
	Quarantined int
	Duplicates  int
}

// Runner executes pseudonymization runs. Construct with NewRunner; a
// Runner may execute multiple runs, each with the same run ID.
type Runner struct {
	cfg       *config.Config
	log       *slog.Logger
	store     *index.Store
	codec     dataset.Codec
	whitelist *policy.WhiteList
	inspector *quarantine.Inspector
	runID     string
}

// NewRunner loads the whitelist and assembles a runner around an open
// identity store.
func NewRunner(cfg *config.Config, log *slog.Logger, store *index.Store, codec dataset.Codec) (*Runner, error) {
	whitelist, err := policy.LoadWhiteList(cfg.WhiteList.File, cfg.WhiteList.SkipHeader)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:       cfg,
		log:       log,
		store:     store,
		codec:     codec,
		whitelist: whitelist,
		inspector: quarantine.New(cfg.Pipeline.Modalities),
		runID:     uuid.NewString(),
	}, nil
}

// RunID returns the identifier stamped on this runner's log lines and
// index marker.
func (r *Runner) RunID() string { return r.runID }

// Run executes the full batch: preflight, index phase, processing phase.
// The first fatal error cancels outstanding work and aborts the run;
// per-file conditions (unreadable container, quarantine rule, missing
// serial, duplicate) never abort it.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: r.runID}
	log := r.log.With("run_id", r.runID)

	if err := r.cfg.EnsureDirectories(); err != nil {
		return summary, err
	}
	if err := preflight.FirstError(preflight.RunAll(r.cfg)); err != nil {
		return summary, err
	}

	files, err := Discover(r.cfg.Paths.InputDir)
	if err != nil {
		return summary, err
	}
	summary.Discovered = len(files)
	log.Info("discovered input files", "count", len(files))

	if err := r.buildIndex(ctx, log, files); err != nil {
		return summary, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := r.cfg.Pipeline.Workers
	if workers < 1 {
		workers = 1
	}

	work := make(chan File, len(files))
	for _, f := range files {
		work <- f
	}
	close(work)

	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range work {
				select {
				case <-runCtx.Done():
					return
				default:
				}
				results <- r.processFile(runCtx, f)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		switch res.outcome {
		case outcomeProcessed:
			summary.Processed++
			log.Info("pseudonymized dataset", "file", res.file.Rel, "output", res.output)
		case outcomeQuarantined:
			summary.Quarantined++
			log.Warn("quarantined dataset", "file", res.file.Rel, "reason", res.reason)
		case outcomeDuplicate:
			summary.Duplicates++
			log.Info("skipped duplicate dataset", "file", res.file.Rel)
		}
	}
	if firstErr != nil {
		return summary, firstErr
	}

	log.Info("run complete",
		"discovered", summary.Discovered,
		"processed", summary.Processed,
		"quarantined", summary.Quarantined,
		"duplicates", summary.Duplicates)
	return summary, nil
}

// Index executes only the index phase: discovery, accession registration,
// and link resolution. The "index" command uses it to prepare a store
// before a later processing run.
func (r *Runner) Index(ctx context.Context) (int, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return 0, err
	}
	if err := preflight.FirstError(preflight.RunAll(r.cfg)); err != nil {
		return 0, err
	}
	files, err := Discover(r.cfg.Paths.InputDir)
	if err != nil {
		return 0, err
	}
	if err := r.buildIndex(ctx, r.log.With("run_id", r.runID), files); err != nil {
		return 0, err
	}
	return len(files), nil
}

// Reindex clears the sentinel marker so the next index phase rebuilds.
func (r *Runner) Reindex() error {
	return index.ClearMarker(index.MarkerPath(r.cfg))
}

// buildIndex registers every readable accession and resolves the links
// file against them, then records completion with the sentinel marker.
// A present marker skips the whole phase.
func (r *Runner) buildIndex(ctx context.Context, log *slog.Logger, files []File) error {
	markerPath := index.MarkerPath(r.cfg)
	marker, err := index.ReadMarker(markerPath)
	if err != nil {
		return err
	}
	if marker != nil {
		log.Info("identity index already built", "indexed_by", marker.RunID)
		return nil
	}

	for _, f := range files {
		ds, err := r.codec.Read(f.Path)
		if errors.Is(err, dataset.ErrNotDataset) {
			// The processing phase quarantines it.
			continue
		}
		if err != nil {
			return fmt.Errorf("index %s: %w", f.Rel, err)
		}
		accession := ds.Value(dataset.TagAccessionNumber)
		if accession == "" {
			continue
		}
		if err := r.store.RegisterAccession(ctx, accession); err != nil {
			return err
		}
	}

	if r.cfg.Links.File != "" {
		rows, err := links.Load(r.cfg.Links.File, r.cfg.LinksDelimiter(), r.cfg.Links.SkipHeader)
		if err != nil {
			return err
		}
		resolver := &links.Resolver{Store: r.store, Log: log}
		if _, err := resolver.Resolve(ctx, rows); err != nil {
			return err
		}
	}

	if err := index.WriteMarker(markerPath, r.runID); err != nil {
		return err
	}
	log.Info("identity index built", "files", len(files))
	return nil
}

type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeQuarantined
	outcomeDuplicate
)

type result struct {
	file    File
	outcome outcome
	reason  string
	output  string
	err     error
}

// processFile runs one file through the decision chain: container check,
// duplicate check, content-safety inspection, serial lookup, then
// pseudonymize and write. The fingerprint is committed only after the
// output write succeeds, so an aborted run never marks unwritten content
// as seen.
func (r *Runner) processFile(ctx context.Context, f File) result {
	ds, err := r.codec.Read(f.Path)
	if errors.Is(err, dataset.ErrNotDataset) {
		return r.quarantineFile(f, "could not read dataset")
	}
	if err != nil {
		return result{file: f, err: fmt.Errorf("read %s: %w", f.Rel, err)}
	}

	hash, pixel, err := fingerprint.Compute(ds)
	if err != nil {
		return result{file: f, err: fmt.Errorf("fingerprint %s: %w", f.Rel, err)}
	}
	fingerprint.Restore(ds, pixel)

	if r.cfg.Pipeline.SkipDuplicates {
		seen, err := r.store.HasFingerprint(ctx, hash)
		if err != nil {
			return result{file: f, err: err}
		}
		if seen {
			return result{file: f, outcome: outcomeDuplicate}
		}
	}

	if decision := r.inspector.Inspect(ds); decision.Quarantine {
		return r.quarantineFile(f, decision.Reason)
	}

	serial, err := r.store.SerialFor(ctx, ds.Value(dataset.TagAccessionNumber))
	if errors.Is(err, index.ErrNoSerial) {
		return r.quarantineFile(f, "no serial for accession")
	}
	if err != nil {
		return result{file: f, err: err}
	}

	policy.SyncStorageUID(ds)
	policy.Apply(ds, r.whitelist)
	policy.StampAudit(ds, serial)

	outPath, err := r.allocateOutput(serial)
	if err != nil {
		return result{file: f, err: err}
	}
	if err := r.codec.Write(ds, outPath); err != nil {
		return result{file: f, err: fmt.Errorf("write %s: %w", outPath, err)}
	}
	if err := r.store.AddFingerprint(ctx, hash); err != nil {
		return result{file: f, err: err}
	}
	return result{file: f, outcome: outcomeProcessed, output: outPath}
}

// quarantineFile copies f into the quarantine tree, preserving its
// relative layout and original name. The source is never modified.
func (r *Runner) quarantineFile(f File, reason string) result {
	dstDir := filepath.Join(r.cfg.Paths.QuarantineDir, filepath.Dir(f.Rel))
	if _, err := fileutil.CopyInto(f.Path, dstDir); err != nil {
		return result{file: f, err: fmt.Errorf("quarantine %s: %w", f.Rel, err)}
	}
	return result{file: f, outcome: outcomeQuarantined, reason: reason}
}
