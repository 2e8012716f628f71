package testsupport

import (
	"testing"

	"pseudonym/internal/config"
	"pseudonym/internal/index"
)

// MustOpenIndex opens an index.Store for tests and registers cleanup.
func MustOpenIndex(t testing.TB, cfg *config.Config) *index.Store {
	t.Helper()

	store, err := index.Open(cfg)
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
