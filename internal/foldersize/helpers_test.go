package foldersize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates a file of the given size under root, creating parents.
func writeFile(t *testing.T, root, rel string, size int) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("a", size)), 0o644))

	return path
}

// mkdir creates a directory under root.
func mkdir(t *testing.T, root, rel string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(path, 0o755))

	return path
}
