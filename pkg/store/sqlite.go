//go:build !wasm

package store

import (
	"database/sql"
	"fmt"

	"github.com/praetorian-inc/chunkpos/pkg/types"
	_ "modernc.org/sqlite"
)

// driverName is the database/sql driver registered by modernc.org/sqlite.
const driverName = "sqlite"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection serialises writers coming from parallel enumerators.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddSource stores a source record.
func (s *SQLiteStore) AddSource(id types.ChunkID, size int64) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO sources (id, size) VALUES (?, ?)", id.Hex(), size)
	if err != nil {
		return fmt.Errorf("inserting source: %w", err)
	}
	return nil
}

// AddProvenance associates provenance with a source.
func (s *SQLiteStore) AddProvenance(id types.ChunkID, prov types.Provenance) error {
	row, err := encodeProvenance(prov)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO provenance (source_id, type, path, repo_path, member_path, commit_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		id.Hex(),
		row.Kind,
		row.Path,
		row.RepoPath,
		row.MemberPath,
		row.CommitHash,
	)
	if err != nil {
		return fmt.Errorf("inserting provenance: %w", err)
	}

	return nil
}

const insertChunk = `
	INSERT OR IGNORE INTO chunks (
		source_id, chunk_index, chunk_id, offset_start, offset_end,
		forward_start_row, forward_start_column, forward_end_row, forward_end_column,
		backward_start_row, backward_start_column, backward_end_row, backward_end_column,
		line_count, ends_with_newline
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func chunkArgs(r *types.ChunkRecord) []interface{} {
	return []interface{}{
		r.SourceID.Hex(),
		r.Index,
		r.ID.Hex(),
		r.Offset.Start,
		r.Offset.End,
		r.Forward.Start.Row,
		r.Forward.Start.Column,
		r.Forward.End.Row,
		r.Forward.End.Column,
		r.Backward.Start.Row,
		r.Backward.Start.Column,
		r.Backward.End.Row,
		r.Backward.End.Column,
		r.LineCount,
		r.EndsWithNewline,
	}
}

// AddChunk stores one chunk of a source.
func (s *SQLiteStore) AddChunk(r *types.ChunkRecord) error {
	if _, err := s.db.Exec(insertChunk, chunkArgs(r)...); err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}
	return nil
}

// ReplaceChunks swaps the chunk set of a source inside one transaction.
func (s *SQLiteStore) ReplaceChunks(sourceID types.ChunkID, records []*types.ChunkRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM chunks WHERE source_id = ?", sourceID.Hex()); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}

	stmt, err := tx.Prepare(insertChunk)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if r.SourceID != sourceID {
			return fmt.Errorf("chunk %d belongs to source %s, not %s", r.Index, r.SourceID.Short(), sourceID.Short())
		}
		if _, err := stmt.Exec(chunkArgs(r)...); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", r.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const chunkColumns = `
	source_id, chunk_index, chunk_id, offset_start, offset_end,
	forward_start_row, forward_start_column, forward_end_row, forward_end_column,
	backward_start_row, backward_start_column, backward_end_row, backward_end_column,
	line_count, ends_with_newline`

// GetChunks retrieves the chunks of a source ordered by index.
func (s *SQLiteStore) GetChunks(sourceID types.ChunkID) ([]*types.ChunkRecord, error) {
	return s.queryChunks(`SELECT `+chunkColumns+` FROM chunks WHERE source_id = ? ORDER BY chunk_index`, sourceID.Hex())
}

// GetAllChunks retrieves every chunk ordered by source and index.
func (s *SQLiteStore) GetAllChunks() ([]*types.ChunkRecord, error) {
	return s.queryChunks(`SELECT ` + chunkColumns + ` FROM chunks ORDER BY source_id, chunk_index`)
}

func (s *SQLiteStore) queryChunks(query string, args ...interface{}) ([]*types.ChunkRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var records []*types.ChunkRecord
	for rows.Next() {
		var r types.ChunkRecord
		err := rows.Scan(
			&r.SourceID,
			&r.Index,
			&r.ID,
			&r.Offset.Start,
			&r.Offset.End,
			&r.Forward.Start.Row,
			&r.Forward.Start.Column,
			&r.Forward.End.Row,
			&r.Forward.End.Column,
			&r.Backward.Start.Row,
			&r.Backward.Start.Column,
			&r.Backward.End.Row,
			&r.Backward.End.Column,
			&r.LineCount,
			&r.EndsWithNewline,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return records, nil
}

// GetSources retrieves every source with its provenance, ordered by ID.
func (s *SQLiteStore) GetSources() ([]*Source, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.size, p.type, p.path, p.repo_path, p.member_path, p.commit_hash
		FROM sources s
		LEFT JOIN provenance p ON p.source_id = s.id
		ORDER BY s.id, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []*Source
	var current *Source
	for rows.Next() {
		var id types.ChunkID
		var size int64
		var kind, path, repoPath, memberPath, commitHash sql.NullString

		if err := rows.Scan(&id, &size, &kind, &path, &repoPath, &memberPath, &commitHash); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}

		if current == nil || current.ID != id {
			current = &Source{ID: id, Size: size}
			sources = append(sources, current)
		}
		if !kind.Valid {
			continue
		}

		prov, err := decodeProvenance(provenanceRow{
			Kind:       kind.String,
			Path:       path.String,
			RepoPath:   repoPath.String,
			MemberPath: memberPath.String,
			CommitHash: commitHash.String,
		})
		if err != nil {
			return nil, err
		}
		current.Provenance = append(current.Provenance, prov)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// SourceExists checks if a source has already been indexed.
func (s *SQLiteStore) SourceExists(id types.ChunkID) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sources WHERE id = ?", id.Hex()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking source existence: %w", err)
	}
	return count > 0, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
