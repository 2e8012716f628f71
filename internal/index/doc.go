// Package index persists the identity mapping and the fingerprint set
// across runs, backed by SQLite. One store serves a whole run; every
// operation, including check-then-act sequences, executes under the store
// mutex because all callers share a single database connection.
package index
