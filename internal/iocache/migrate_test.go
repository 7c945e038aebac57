package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/osscompass/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCache_NoneBackend(t *testing.T) {
	_, err := MigrateCache(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for none backend")
}

func TestMigrateCache_MemoryBackend(t *testing.T) {
	_, err := MigrateCache(schema.MemoryBackend, "", -1)
	assert.Error(t, err)
}

func TestMigrateCache_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	// Fresh database goes to the latest version
	res, err := MigrateCache(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Equal(t, MigrationResult{From: 0, To: 2, Changed: true}, res)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// Second run is a no-op
	res, err = MigrateCache(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Equal(t, MigrationResult{From: 2, To: 2, Changed: false}, res)

	// Step back to the table without the index
	res, err = MigrateCache(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)
	assert.Equal(t, MigrationResult{From: 2, To: 1, Changed: true}, res)

	// Roll back everything
	res, err = MigrateCache(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(0), res.To)
	assert.False(t, tableExists(t, dbPath, responseTable))

	// And up again
	res, err = MigrateCache(schema.SQLiteBackend, dbPath, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), res.To)
	assert.True(t, tableExists(t, dbPath, responseTable))
}

func TestMigrateCache_UnknownVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")
	_, err := MigrateCache(schema.SQLiteBackend, dbPath, 99)
	assert.Error(t, err)
}

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	require.NoError(t, err)
	return n == 1
}
