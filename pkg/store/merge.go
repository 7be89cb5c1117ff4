//go:build !wasm

package store

import (
	"database/sql"
	"fmt"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	SourcesMerged      int
	ChunksMerged       int
	ProvenanceMerged   int
	DatabasesProcessed int
}

// Merge combines multiple chunk index databases into one.
// Deduplication is handled via INSERT OR IGNORE on unique keys. A source
// keeps the chunk set of the first database that holds it, so sources split
// differently in two databases never end up with mixed chunks.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	destDB, err := sql.Open(driverName, cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer destDB.Close()
	destDB.SetMaxOpenConns(1)

	if err := CreateSchema(destDB); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	stats := &MergeStats{}

	for _, sourcePath := range cfg.SourcePaths {
		sourceStats, err := mergeFrom(destDB, sourcePath)
		if err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.SourcesMerged += sourceStats.SourcesMerged
		stats.ChunksMerged += sourceStats.ChunksMerged
		stats.ProvenanceMerged += sourceStats.ProvenanceMerged
		stats.DatabasesProcessed++
	}

	return stats, nil
}

// mergeFrom copies data from a source database to the destination.
func mergeFrom(destDB *sql.DB, sourcePath string) (*MergeStats, error) {
	sourceDB, err := sql.Open(driverName, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source database: %w", err)
	}
	defer sourceDB.Close()

	stats := &MergeStats{}

	tx, err := destDB.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	sourceCount, err := mergeSources(tx, sourceDB)
	if err != nil {
		return nil, fmt.Errorf("merging sources: %w", err)
	}
	stats.SourcesMerged = sourceCount

	chunkCount, err := mergeChunks(tx, sourceDB)
	if err != nil {
		return nil, fmt.Errorf("merging chunks: %w", err)
	}
	stats.ChunksMerged = chunkCount

	provCount, err := mergeProvenance(tx, sourceDB)
	if err != nil {
		return nil, fmt.Errorf("merging provenance: %w", err)
	}
	stats.ProvenanceMerged = provCount

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return stats, nil
}

// copyRows reads every row of query from sourceDB and replays it through
// insert, counting the rows that were actually written. Rows for which skip
// returns true are not copied; skip may be nil.
func copyRows(tx *sql.Tx, sourceDB *sql.DB, query, insert string, columns int, skip func([]interface{}) bool) (int, error) {
	rows, err := sourceDB.Query(query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	stmt, err := tx.Prepare(insert)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	values := make([]interface{}, columns)
	ptrs := make([]interface{}, columns)
	for i := range values {
		ptrs[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return count, err
		}
		if skip != nil && skip(values) {
			continue
		}
		result, err := stmt.Exec(values...)
		if err != nil {
			return count, err
		}
		affected, _ := result.RowsAffected()
		if affected > 0 {
			count++
		}
	}
	return count, rows.Err()
}

func mergeSources(tx *sql.Tx, sourceDB *sql.DB) (int, error) {
	return copyRows(tx, sourceDB,
		"SELECT id, size FROM sources",
		"INSERT OR IGNORE INTO sources (id, size) VALUES (?, ?)",
		2, nil)
}

func mergeChunks(tx *sql.Tx, sourceDB *sql.DB) (int, error) {
	chunked, err := chunkedSources(tx)
	if err != nil {
		return 0, err
	}
	return copyRows(tx, sourceDB,
		"SELECT "+chunkColumns+" FROM chunks",
		"INSERT OR IGNORE INTO chunks ("+chunkColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		15, func(values []interface{}) bool {
			return chunked[sourceKey(values[0])]
		})
}

// chunkedSources returns the sources that already have chunks in the
// destination.
func chunkedSources(tx *sql.Tx) (map[string]bool, error) {
	rows, err := tx.Query("SELECT DISTINCT source_id FROM chunks")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chunked := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		chunked[id] = true
	}
	return chunked, rows.Err()
}

func sourceKey(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case []byte:
		return string(id)
	default:
		return fmt.Sprint(id)
	}
}

func mergeProvenance(tx *sql.Tx, sourceDB *sql.DB) (int, error) {
	return copyRows(tx, sourceDB,
		"SELECT source_id, type, path, repo_path, member_path, commit_hash FROM provenance",
		`INSERT OR IGNORE INTO provenance (source_id, type, path, repo_path, member_path, commit_hash)
		VALUES (?, ?, ?, ?, ?, ?)`,
		6, nil)
}
