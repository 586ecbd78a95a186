package provision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirs_CreatesTree(t *testing.T) {
	base := filepath.Join(t.TempDir(), "homelab")

	require.NoError(t, EnsureDirs(base, StackDirs, os.Getuid(), os.Getgid()))

	for _, entry := range StackDirs {
		info, err := os.Stat(filepath.Join(base, entry.Rel))
		require.NoError(t, err, entry.Rel)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(dirMode), info.Mode().Perm())
	}
}

func TestEnsureDirs_SecondRunIsNoOp(t *testing.T) {
	base := filepath.Join(t.TempDir(), "homelab")
	uid, gid := os.Getuid(), os.Getgid()

	require.NoError(t, EnsureDirs(base, StackDirs, uid, gid))
	assert.NoError(t, EnsureDirs(base, StackDirs, uid, gid), "re-run against unchanged state must not error")
}

func TestEnsureDirs_PreservesExistingContent(t *testing.T) {
	base := filepath.Join(t.TempDir(), "homelab")
	uid, gid := os.Getuid(), os.Getgid()
	require.NoError(t, EnsureDirs(base, StackDirs, uid, gid))

	// Data created by other means between runs must survive untouched.
	movie := filepath.Join(base, "media", "movies", "title.mkv")
	require.NoError(t, os.WriteFile(movie, []byte("payload"), 0o600))

	require.NoError(t, EnsureDirs(base, StackDirs, uid, gid))

	b, err := os.ReadFile(movie)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b), "contents never truncated")

	info, err := os.Stat(movie)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(fileMode), info.Mode().Perm(), "only mode bits change")
}

func TestEnsureDirs_BadBase(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := EnsureDirs(filepath.Join(blocker, "base"), StackDirs, os.Getuid(), os.Getgid())

	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)
}
