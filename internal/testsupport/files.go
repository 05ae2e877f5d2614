package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes the given content to path, creating parent directories.
// Upload command tests use it to stage papers on disk.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
