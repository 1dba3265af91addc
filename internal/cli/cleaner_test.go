package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanerTree(t *testing.T) string {
	root := t.TempDir()
	writeFiles(t, root,
		"src/lib.rs",
		"src/autogen_lib.rs",
		"src/nested/autogen_mod.rs",
		"autogen_top.rs",
	)
	return root
}

func TestCleanRecursive(t *testing.T) {
	root := cleanerTree(t)
	removed, err := NewCleaner().CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"autogen_top.rs", "src/autogen_lib.rs", "src/nested/autogen_mod.rs"}, relativeTo(t, root, removed))
	assert.FileExists(t, filepath.Join(root, "src", "lib.rs"))
}

func TestCleanFlat(t *testing.T) {
	root := cleanerTree(t)
	removed, err := NewCleaner().CleanGeneratedFiles([]string{filepath.Join(root, "src")})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/autogen_lib.rs"}, relativeTo(t, root, removed))
	assert.FileExists(t, filepath.Join(root, "src", "nested", "autogen_mod.rs"))
}

func TestCleanSingleSource(t *testing.T) {
	root := cleanerTree(t)
	removed, err := NewCleaner().CleanGeneratedFiles([]string{filepath.Join(root, "src", "lib.rs")})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/autogen_lib.rs"}, relativeTo(t, root, removed))

	removed, err = NewCleaner().CleanGeneratedFiles([]string{filepath.Join(root, "src", "lib.rs")})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestCleanMissingDirectory(t *testing.T) {
	removed, err := NewCleaner().CleanGeneratedFiles([]string{filepath.Join(t.TempDir(), "gone") + "/..."})
	require.NoError(t, err)
	assert.Empty(t, removed)
}
