package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_ReplacesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.properties")

	require.NoError(t, WriteFileAtomic(path, []byte("a=1\n"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("a=2\n"), 0o644))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a=2\n", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRemoveAllAndRecreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "covtool")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "stale.lst"), []byte("x"), 0o644))

	require.NoError(t, RemoveAllAndRecreate(dir, 0o755))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemoveAllAndRecreate_Missing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "x", "covtool")
	require.NoError(t, RemoveAllAndRecreate(dir, 0o755))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
