// Package testutil provides utilities for testing tfwrap in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv isolates a test from the user's real environment:
// the cache root points into a temp directory, and version pin and
// token variables are cleared so ambient shell configuration cannot
// leak into assertions.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	cacheRoot := filepath.Join(tmpDir, "cache")

	t.Setenv("TFWRAP_CACHE_DIR", cacheRoot)
	t.Setenv("TERRAFORM_VERSION", "")
	t.Setenv("GITHUB_TOKEN", "")

	if err := os.MkdirAll(cacheRoot, 0o755); err != nil {
		t.Fatalf("failed to create test cache root: %v", err)
	}

	return cacheRoot
}
