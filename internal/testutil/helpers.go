package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dossiers/internal/common"
)

// TestHelper provides common test utilities
type TestHelper struct {
	t *testing.T
}

// NewTestHelper creates a new test helper
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// TempDir creates a temporary directory removed when the test ends. The
// returned path has symlinks resolved so it compares equal to canonical
// repository roots.
func (h *TestHelper) TempDir() string {
	h.t.Helper()

	dir := h.t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		h.t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	return resolved
}

// WriteFile writes content to a file in the given directory, creating parents
func (h *TestHelper) WriteFile(dir, filename, content string) string {
	h.t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(filename))

	if err := os.MkdirAll(filepath.Dir(path), common.DirPermissionNormal); err != nil {
		h.t.Fatalf("Failed to create directories: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), common.FilePermissionNormal); err != nil {
		h.t.Fatalf("Failed to write file %s: %v", path, err)
	}

	return path
}

// SetModTime sets both access and modification time of path
func (h *TestHelper) SetModTime(path string, when time.Time) {
	h.t.Helper()

	if err := os.Chtimes(path, when, when); err != nil {
		h.t.Fatalf("Failed to set times on %s: %v", path, err)
	}
}

// MockEnv sets an environment variable for the duration of the test
func (h *TestHelper) MockEnv(key, value string) {
	h.t.Helper()
	h.t.Setenv(key, value)
}
