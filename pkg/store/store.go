package store

import (
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// MemoryPath selects the in-memory backend.
const MemoryPath = ":memory:"

// Store provides persistence for chunk indexes.
// This interface abstracts the underlying storage implementation,
// allowing for different backends.
type Store interface {
	// AddSource stores a source record.
	AddSource(id types.ChunkID, size int64) error

	// AddProvenance associates provenance with a source.
	AddProvenance(id types.ChunkID, prov types.Provenance) error

	// AddChunk stores one chunk of a source. Re-adding the same
	// (source, index) pair is a no-op.
	AddChunk(r *types.ChunkRecord) error

	// ReplaceChunks discards every stored chunk of a source and stores
	// records in their place as one atomic change, so a source never mixes
	// chunks from two split layouts.
	ReplaceChunks(sourceID types.ChunkID, records []*types.ChunkRecord) error

	// GetChunks retrieves the chunks of a source ordered by index.
	GetChunks(sourceID types.ChunkID) ([]*types.ChunkRecord, error)

	// GetAllChunks retrieves every chunk ordered by source and index.
	GetAllChunks() ([]*types.ChunkRecord, error)

	// GetSources retrieves every source with its provenance.
	GetSources() ([]*Source, error)

	// SourceExists checks if a source has already been indexed.
	SourceExists(id types.ChunkID) (bool, error)

	// Close closes the database connection.
	Close() error
}

// Source is an indexed source and everywhere it was seen.
type Source struct {
	ID         types.ChunkID
	Size       int64
	Provenance []types.Provenance
}

// DisplayPath returns the first provenance path, or the short ID when the
// source has no provenance.
func (s *Source) DisplayPath() string {
	for _, p := range s.Provenance {
		if p.Path() != "" {
			return p.Path()
		}
	}
	return s.ID.Short()
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for an in-memory store (useful for testing).
	Path string
}
