package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/cgp/internal/errors"
)

// writeFiles creates each file under root with placeholder contents
func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("pub struct S;\n"), 0o644))
	}
}

func relativeTo(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, path := range paths {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func scannerTree(t *testing.T) string {
	root := t.TempDir()
	writeFiles(t, root,
		"src/lib.rs",
		"src/autogen_lib.rs",
		"src/nested/mod.rs",
		"src/notes.txt",
		"target/debug/build.rs",
		".hidden/secret.rs",
		"benches/bench.rs",
	)
	return root
}

func TestScanFilesRecursive(t *testing.T) {
	root := scannerTree(t)
	files, err := NewDirectoryScanner().ScanFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{"benches/bench.rs", "src/lib.rs", "src/nested/mod.rs"}, relativeTo(t, root, files))
}

func TestScanFilesFlat(t *testing.T) {
	root := scannerTree(t)
	files, err := NewDirectoryScanner().ScanFiles([]string{filepath.Join(root, "src")})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/lib.rs"}, relativeTo(t, root, files))
}

func TestScanFilesSingleFileAndDedup(t *testing.T) {
	root := scannerTree(t)
	lib := filepath.Join(root, "src", "lib.rs")
	files, err := NewDirectoryScanner().ScanFiles([]string{lib, filepath.Join(root, "src"), root + "/src/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/lib.rs", "src/nested/mod.rs"}, relativeTo(t, root, files))
}

func TestScanFilesErrors(t *testing.T) {
	root := scannerTree(t)
	scanner := NewDirectoryScanner()

	_, err := scanner.ScanFiles([]string{filepath.Join(root, "missing")})
	require.Error(t, err)
	assert.Equal(t, errors.FileSystemErrorCode, errors.AsCGPError(err).ErrorCode())

	_, err = scanner.ScanFiles([]string{filepath.Join(root, "src", "notes.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestResolveTarget(t *testing.T) {
	root := scannerTree(t)
	tests := []struct {
		pattern string
		want    target
	}{
		{root + "/...", target{path: root, recursive: true}},
		{root, target{path: root}},
		{filepath.Join(root, "src", "lib.rs"), target{path: filepath.Join(root, "src", "lib.rs"), file: true}},
	}
	for _, tt := range tests {
		got, err := resolveTarget(tt.pattern)
		require.NoError(t, err, tt.pattern)
		assert.Equal(t, tt.want, got, tt.pattern)
	}
}
