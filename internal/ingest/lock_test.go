package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutar/city-guide-sub000/internal/errors"
)

func TestDirLock_AcquireAndRelease(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireDirLock(dir)
	require.NoError(t, err)
	require.NoError(t, lock.Release())

	// Reacquire after release
	lock, err = AcquireDirLock(dir)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestDirLock_ConflictIsFatal(t *testing.T) {
	dir := t.TempDir()

	first, err := AcquireDirLock(dir)
	require.NoError(t, err)
	defer first.Release()

	_, err = AcquireDirLock(dir)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDataDirLocked, errors.GetCode(err))
	assert.True(t, errors.IsFatal(err))
}

func TestDirLock_CreatesDataDir(t *testing.T) {
	dir := t.TempDir() + "/nested/data"

	lock, err := AcquireDirLock(dir)
	require.NoError(t, err)
	defer lock.Release()
}
