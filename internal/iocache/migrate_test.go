package iocache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alvinmin/auditradar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_MemoryBackend(t *testing.T) {
	_, err := Migrate(schema.MemoryBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for the memory backend")
}

func TestMigrate_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	// Fresh database goes straight to the latest version
	result, err := Migrate(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Equal(t, uint(0), result.FromVersion)
	assert.Equal(t, uint(5), result.ToVersion)
	assert.True(t, result.Changed)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// Running again is a no-op
	result, err = Migrate(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, uint(5), result.ToVersion)

	// Step down to a specific version
	result, err = Migrate(schema.SQLiteBackend, dbPath, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(5), result.FromVersion)
	assert.Equal(t, uint(3), result.ToVersion)

	// Rollback everything
	result, err = Migrate(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(0), result.ToVersion)

	// And back up
	result, err = Migrate(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Equal(t, uint(5), result.ToVersion)
}

func TestMigrate_SQLiteUnknownVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bad_version.db")
	_, err := Migrate(schema.SQLiteBackend, dbPath, 42)
	assert.Error(t, err)
}

func TestMigrate_UnsupportedBackend(t *testing.T) {
	_, err := Migrate(schema.DatabaseBackend("oracle"), "x", -1)
	assert.Error(t, err)
}
