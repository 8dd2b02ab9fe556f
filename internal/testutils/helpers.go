package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile creates name with content in a fresh temporary directory and
// returns its absolute path. It fails the test immediately on error.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write %s", name)
	return path
}

// Testdata returns the path of the shared aircraft spec fixture in the
// given format (yaml, json or hcl), relative to the repository root.
func Testdata(t *testing.T, root, format string) string {
	t.Helper()
	path := filepath.Join(root, "internal", "compiler", "testdata", "aircraft."+format)
	_, err := os.Stat(path)
	require.NoError(t, err, "missing fixture %s", path)
	return path
}
