// Package pipeline orchestrates a pseudonymization run: input discovery,
// identity-index building, link resolution, and the concurrent per-file
// pass that pseudonymizes, quarantines, or deduplicates each dataset.
//
// A run has two phases. The index phase walks the input once to register
// every accession number and resolve the links file against them; its
// completion is recorded with a sentinel marker so later runs skip it.
// The processing phase then walks the same files through a worker pool,
// where each file either lands in output/<serial>/ pseudonymized, is
// copied into the quarantine tree for review, or is skipped as an exact
// duplicate of something already processed.
package pipeline
