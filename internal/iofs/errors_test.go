package iofs

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/errcode"
)

func gnError(t *testing.T, err error) *gn.Error {
	t.Helper()
	var res *gn.Error
	require.ErrorAs(t, err, &res)
	return res
}

// TestEnsureDirs_FileInTheWay checks that a regular file where the log
// directory tree starts gives CreateDirError.
func TestEnsureDirs_FileInTheWay(t *testing.T) {
	home := t.TempDir()
	blocker := filepath.Join(home, ".local")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := EnsureDirs(home)
	require.Error(t, err)

	gnErr := gnError(t, err)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
	assert.Equal(t, []any{config.LogDir(home)}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, syscall.ENOTDIR)

	info, err := os.Stat(config.ConfigDir(home))
	require.NoError(t, err, "config dir is created before log dir")
	assert.True(t, info.IsDir())
}

// TestEnsureConfigFile_NoConfigDir checks that config.yaml cannot be
// written when a file takes the place of the config directory.
func TestEnsureConfigFile_NoConfigDir(t *testing.T) {
	home := t.TempDir()
	parent := filepath.Dir(config.ConfigDir(home))
	require.NoError(t, os.MkdirAll(parent, 0755))
	require.NoError(t, os.WriteFile(config.ConfigDir(home), nil, 0644))

	err := EnsureConfigFile(home)
	require.Error(t, err)

	gnErr := gnError(t, err)
	assert.Equal(t, errcode.CopyFileError, gnErr.Code)
	assert.Equal(t, []any{config.ConfigFilePath(home)}, gnErr.Vars)
}

// TestEnsureConfigFile_ReadOnlyDir checks a config directory without
// write permission.
func TestEnsureConfigFile_ReadOnlyDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	home := t.TempDir()
	require.NoError(t, EnsureDirs(home))
	dir := config.ConfigDir(home)
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	err := EnsureConfigFile(home)
	require.Error(t, err)
	gnErr := gnError(t, err)
	assert.Equal(t, errcode.CopyFileError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, os.ErrPermission)

	_, err = os.Stat(config.ConfigFilePath(home))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
