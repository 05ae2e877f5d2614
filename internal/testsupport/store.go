package testsupport

import (
	"context"
	"testing"

	"papercast/internal/config"
	"papercast/internal/session"
	"papercast/internal/workflow"
)

// MustOpenStore opens a session.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *session.Store {
	t.Helper()

	store, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewSession creates a session seeded with the given state for tests.
func NewSession(t testing.TB, store *session.Store, path string, state workflow.State) *session.Session {
	t.Helper()

	sess, err := store.Create(context.Background(), path, state)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return sess
}
