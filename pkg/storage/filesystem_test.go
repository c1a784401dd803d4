package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageResolveStaysInsideBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	rel, err := store.Save("../../escape.csv", []byte("data"))
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "escape.csv"))
	assert.NoError(t, statErr, "file lands inside the base dir")
	_, statErr = os.Stat(filepath.Join(filepath.Dir(filepath.Dir(dir)), "escape.csv"))
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, store.Delete(rel))
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old.csv", []byte("stale"))
	require.NoError(t, err)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), old, old))

	_, err = store.Save("fresh.csv", []byte("recent"))
	require.NoError(t, err)

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)

	_, statErr := os.Stat(filepath.Join(dir, "fresh.csv"))
	assert.NoError(t, statErr)
}
