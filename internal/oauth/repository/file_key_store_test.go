package repository

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKeyStoreGeneratesOnce(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileKeyStore(dir)
	require.NoError(t, err)

	first, err := store.SigningKey()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := store.SigningKey()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dir, keyFileName))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestFileKeyStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileKeyStore(dir)
	require.NoError(t, err)
	first, err := store.SigningKey()
	require.NoError(t, err)

	reopened, err := NewFileKeyStore(dir)
	require.NoError(t, err)
	second, err := reopened.SigningKey()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFileKeyStoreTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileKeyStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("my-key\n"), 0o600))

	key, err := store.SigningKey()
	require.NoError(t, err)
	assert.Equal(t, []byte("my-key"), key)
}

func TestFileKeyStoreEmptyFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileKeyStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("  \n"), 0o600))

	_, err = store.SigningKey()
	assert.Error(t, err)
}
