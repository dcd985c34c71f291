package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTemp writes content to name inside a per-test directory and returns
// the full path.
func WriteTemp(tb testing.TB, name, content string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}
	return path
}
