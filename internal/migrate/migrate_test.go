package migrate

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "udi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestRunMigrations_SQLite(t *testing.T) {
	db := openSQLite(t)

	_, _, err := GetMigrationVersion(db, DriverSQLite)
	assert.ErrorIs(t, err, migrate.ErrNilVersion)

	require.NoError(t, RunMigrations(db, DriverSQLite))

	assert.True(t, tableExists(t, db, "entity_types"))
	assert.True(t, tableExists(t, db, "entity_keys"))

	version, dirty, err := GetMigrationVersion(db, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, RunMigrations(db, DriverSQLite))
		version, _, err := GetMigrationVersion(db, DriverSQLite)
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)
	})

	t.Run("udi check constraint", func(t *testing.T) {
		_, err := db.Exec("INSERT INTO entity_keys (entity_type, udi) VALUES ('document', 'umb://document/00000000000000000000000000000001')")
		require.NoError(t, err)

		_, err = db.Exec("INSERT INTO entity_keys (entity_type, udi) VALUES ('document', 'http://example.com')")
		assert.Error(t, err)

		_, err = db.Exec("INSERT INTO entity_keys (entity_type) VALUES ('document')")
		assert.NoError(t, err, "keys without a UDI are allowed")
	})

	t.Run("udi is unique", func(t *testing.T) {
		_, err := db.Exec("INSERT INTO entity_keys (entity_type, udi) VALUES ('document', 'umb://document/00000000000000000000000000000001')")
		assert.Error(t, err)
	})
}

func TestRollbackMigrations_SQLite(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, RunMigrations(db, DriverSQLite))

	require.NoError(t, RollbackMigrations(db, DriverSQLite, 1))
	assert.False(t, tableExists(t, db, "entity_keys"))
	assert.True(t, tableExists(t, db, "entity_types"))

	version, _, err := GetMigrationVersion(db, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	assert.Error(t, RollbackMigrations(db, DriverSQLite, 0))
}

func TestRunMigrations_UnsupportedDriver(t *testing.T) {
	db := openSQLite(t)
	err := RunMigrations(db, "mysql")
	assert.ErrorContains(t, err, "unsupported database driver")

	_, _, err = GetMigrationVersion(db, "mysql")
	assert.Error(t, err)
}
