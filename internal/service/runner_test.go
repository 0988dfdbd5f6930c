package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_TryAcquireThenRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.lock")
	lock := newFileLock(path)

	acquired, err := lock.tryAcquire()
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.FileExists(t, path)

	lock.release()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileLock_SecondAcquireFailsWhileHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.lock")
	first := newFileLock(path)
	second := newFileLock(path)

	acquired, err := first.tryAcquire()
	require.NoError(t, err)
	require.True(t, acquired)
	defer first.release()

	acquired, err = second.tryAcquire()
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestFileLock_ReleaseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.lock")
	lock := newFileLock(path)

	lock.release()

	acquired, err := lock.tryAcquire()
	require.NoError(t, err)
	require.True(t, acquired)
	lock.release()
	lock.release()
}
