package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend(t *testing.T) {
	t.Run("load reports missing record", func(t *testing.T) {
		backend, err := NewFileBackend(filepath.Join(t.TempDir(), "settings.json"))
		require.NoError(t, err)

		_, ok, err := backend.Load()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		backend, err := NewFileBackend(path)
		require.NoError(t, err)

		require.NoError(t, backend.Save([]byte(`{"enabled": true}`)))

		data, ok, err := backend.Load()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"enabled": true}`, string(data))

		// No stray temp file left behind.
		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rewrites keep a bounded number of backups", func(t *testing.T) {
		dir := t.TempDir()
		backend, err := NewFileBackend(filepath.Join(dir, "settings.json"))
		require.NoError(t, err)

		for i := 0; i < 6; i++ {
			require.NoError(t, backend.Save([]byte{'0' + byte(i)}))
		}

		matches, err := filepath.Glob(filepath.Join(dir, "settings.json.backup.*"))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(matches), backupCount)
	})
}

func TestSQLiteBackend(t *testing.T) {
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	defer backend.Close()

	_, ok, err := backend.Load()
	require.NoError(t, err)
	assert.False(t, ok, "fresh database has no record")

	require.NoError(t, backend.Save([]byte(`{"kick_mode": false}`)))
	require.NoError(t, backend.Save([]byte(`{"kick_mode": true}`)))

	data, ok, err := backend.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"kick_mode": true}`, string(data))
}

func TestSQLiteBackendWithStore(t *testing.T) {
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)

	store, err := New(backend)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RestrictChannel("7", []string{"ARK"}))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"7": {"ARK"}}, settings.RestrictedChannels)
}
