package trash

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

	require.NoError(t, Move(tmpFile))

	// Gone from the original location whether trashed or deleted.
	_, err := os.Stat(tmpFile)
	assert.True(t, os.IsNotExist(err))
}

func TestMoveDirectory(t *testing.T) {
	testDir := filepath.Join(t.TempDir(), "testdir")
	require.NoError(t, os.Mkdir(testDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "file.txt"), []byte("content"), 0644))

	require.NoError(t, Move(testDir))

	_, err := os.Stat(testDir)
	assert.True(t, os.IsNotExist(err))
}

func TestMoveMissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nonexistent.txt")

	err := Move(missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMoveRelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rel.txt"), []byte("x"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, Move("rel.txt"))

	_, err = os.Stat(filepath.Join(dir, "rel.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRemovePermanently(t *testing.T) {
	testDir := filepath.Join(t.TempDir(), "perm")
	require.NoError(t, os.Mkdir(testDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "file.txt"), []byte("content"), 0644))

	require.NoError(t, removePermanently(testDir))

	_, err := os.Stat(testDir)
	assert.True(t, os.IsNotExist(err))
}
