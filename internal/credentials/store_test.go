package credentials_test

import (
	"os"
	"path/filepath"
	"testing"

	"papercast/internal/credentials"
	"papercast/internal/logging"
)

func newStore(t *testing.T) (*credentials.Store, string) {
	t.Helper()
	dir := t.TempDir()
	return credentials.NewStore(dir, logging.NewNop()), dir
}

func TestTokenRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	if got := store.Token(); got != "" {
		t.Fatalf("fresh store token = %q, want empty", got)
	}

	store.SetToken("abc123")
	if got := store.Token(); got != "abc123" {
		t.Fatalf("token = %q, want abc123", got)
	}

	store.SetToken("")
	if got := store.Token(); got != "" {
		t.Fatalf("cleared token = %q, want empty", got)
	}
}

func TestBlankTokenIsNeverStoredAsPresent(t *testing.T) {
	store, _ := newStore(t)
	store.SetToken("   \t ")
	if got := store.Token(); got != "" {
		t.Fatalf("whitespace token stored as %q", got)
	}
}

func TestUserProfileRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	store.SetUser(&credentials.Profile{ID: "u1", Name: "Ada", Email: "ada@example.com"})

	user := store.User()
	if user == nil || user.ID != "u1" || user.Email != "ada@example.com" {
		t.Fatalf("user = %+v", user)
	}

	// Mutating the returned profile must not affect stored state.
	user.Name = "mutated"
	if again := store.User(); again.Name != "Ada" {
		t.Fatalf("stored profile mutated: %+v", again)
	}

	store.SetUser(nil)
	if store.User() != nil {
		t.Fatal("user survived nil set")
	}
}

func TestClearRemovesEverything(t *testing.T) {
	store, dir := newStore(t)
	store.SetToken("abc")
	store.SetUser(&credentials.Profile{ID: "u1"})

	store.Clear()

	if store.Token() != "" || store.User() != nil {
		t.Fatal("credentials survived clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "credentials.json")); !os.IsNotExist(err) {
		t.Fatalf("credentials file still present: %v", err)
	}
}

func TestPersistsAcrossStoreInstances(t *testing.T) {
	dir := t.TempDir()
	first := credentials.NewStore(dir, logging.NewNop())
	first.SetToken("abc")
	first.SetUser(&credentials.Profile{ID: "u1"})

	second := credentials.NewStore(dir, logging.NewNop())
	if second.Token() != "abc" {
		t.Fatalf("token not persisted: %q", second.Token())
	}
	if user := second.User(); user == nil || user.ID != "u1" {
		t.Fatalf("user not persisted: %+v", user)
	}
}

func TestStorageFailureDegradesToLoggedOut(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing", "nested")
	store := credentials.NewStore(filepath.Join(dir, "blocked"), logging.NewNop())

	// Make the parent a file so directory creation fails.
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(dir, []byte("not a dir"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	store.SetToken("abc")
	if got := store.Token(); got != "" {
		t.Fatalf("token = %q, want empty after storage failure", got)
	}
	store.Clear()
}

func TestCorruptFileTreatedAsAbsent(t *testing.T) {
	store, dir := newStore(t)
	if err := os.WriteFile(filepath.Join(dir, "credentials.json"), []byte("{nope"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if got := store.Token(); got != "" {
		t.Fatalf("token from corrupt file = %q", got)
	}
	if store.User() != nil {
		t.Fatal("user from corrupt file")
	}
}
