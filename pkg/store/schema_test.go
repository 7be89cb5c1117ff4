//go:build !wasm

package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchema(t *testing.T) {
	db, err := sql.Open(driverName, filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, CreateSchema(db))
	// Running twice must not fail or duplicate the version row.
	require.NoError(t, CreateSchema(db))

	for _, table := range []string{"schema_version", "sources", "chunks", "provenance"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	var count, version int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, 1, count)
	require.NoError(t, db.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, SchemaVersion, version)
}
