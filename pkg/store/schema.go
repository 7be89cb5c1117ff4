//go:build !wasm

package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createSourcesTable(db); err != nil {
		return fmt.Errorf("creating sources table: %w", err)
	}

	if err := createChunksTable(db); err != nil {
		return fmt.Errorf("creating chunks table: %w", err)
	}

	if err := createProvenanceTable(db); err != nil {
		return fmt.Errorf("creating provenance table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Insert version if table is empty
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}

	return nil
}

func createSourcesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY NOT NULL,
			size INTEGER NOT NULL
		)
	`)
	return err
}

func createChunksTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_id TEXT NOT NULL REFERENCES sources(id),
			chunk_index INTEGER NOT NULL,
			chunk_id TEXT NOT NULL,
			offset_start INTEGER NOT NULL,
			offset_end INTEGER NOT NULL,
			forward_start_row INTEGER NOT NULL,
			forward_start_column INTEGER NOT NULL,
			forward_end_row INTEGER NOT NULL,
			forward_end_column INTEGER NOT NULL,
			backward_start_row INTEGER NOT NULL,
			backward_start_column INTEGER NOT NULL,
			backward_end_row INTEGER NOT NULL,
			backward_end_column INTEGER NOT NULL,
			line_count INTEGER NOT NULL,
			ends_with_newline INTEGER NOT NULL,
			UNIQUE(source_id, chunk_index)
		)
	`)
	return err
}

func createProvenanceTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS provenance (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_id TEXT NOT NULL REFERENCES sources(id),
			type TEXT NOT NULL,
			path TEXT,
			repo_path TEXT,
			member_path TEXT,
			commit_hash TEXT,
			UNIQUE(source_id, type, path, repo_path, member_path, commit_hash)
		)
	`)
	if err != nil {
		return err
	}

	// Create index for efficient provenance lookup by source_id
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_provenance_source_id ON provenance(source_id)
	`)
	return err
}
