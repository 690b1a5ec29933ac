package testsupport

import (
	"testing"

	"soundrip/internal/config"
	"soundrip/internal/journal"
)

// MustOpenJournal opens a journal store in the config's data directory and
// closes it when the test ends.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()
	store, err := journal.Open(cfg.Paths.DataDir)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
