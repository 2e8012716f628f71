// Package policy implements the attribute retention policy: a per-tag
// classifier over a load-time whitelist plus fixed required, pixel-module,
// and allowed-file-meta tag tables, and the in-place mutator that applies
// the classification to a dataset.
package policy
