package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// chunkKey identifies a chunk within its source.
type chunkKey struct {
	source types.ChunkID
	index  int
}

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu         sync.RWMutex
	sources    map[types.ChunkID]int64
	chunks     map[chunkKey]*types.ChunkRecord
	provenance map[types.ChunkID][]provenanceRow
	closed     bool
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		sources:    make(map[types.ChunkID]int64),
		chunks:     make(map[chunkKey]*types.ChunkRecord),
		provenance: make(map[types.ChunkID][]provenanceRow),
	}
}

// AddSource stores a source record.
func (m *MemoryStore) AddSource(id types.ChunkID, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sources[id]; exists {
		// Idempotent - already exists
		return nil
	}
	m.sources[id] = size
	return nil
}

// AddProvenance associates provenance with a source.
func (m *MemoryStore) AddProvenance(id types.ChunkID, prov types.Provenance) error {
	row, err := encodeProvenance(prov)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.provenance[id] {
		if existing == row {
			return nil
		}
	}
	m.provenance[id] = append(m.provenance[id], row)
	return nil
}

// AddChunk stores one chunk of a source.
func (m *MemoryStore) AddChunk(r *types.ChunkRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := chunkKey{source: r.SourceID, index: r.Index}
	if _, exists := m.chunks[key]; exists {
		return nil
	}
	stored := *r
	m.chunks[key] = &stored
	return nil
}

// ReplaceChunks swaps the chunk set of a source under one lock.
func (m *MemoryStore) ReplaceChunks(sourceID types.ChunkID, records []*types.ChunkRecord) error {
	for _, r := range records {
		if r.SourceID != sourceID {
			return fmt.Errorf("chunk %d belongs to source %s, not %s", r.Index, r.SourceID.Short(), sourceID.Short())
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.chunks {
		if key.source == sourceID {
			delete(m.chunks, key)
		}
	}
	for _, r := range records {
		stored := *r
		m.chunks[chunkKey{source: sourceID, index: r.Index}] = &stored
	}
	return nil
}

// GetChunks retrieves the chunks of a source ordered by index.
func (m *MemoryStore) GetChunks(sourceID types.ChunkID) ([]*types.ChunkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*types.ChunkRecord
	for key, r := range m.chunks {
		if key.source == sourceID {
			copied := *r
			records = append(records, &copied)
		}
	}
	sortRecords(records)
	return records, nil
}

// GetAllChunks retrieves every chunk ordered by source and index.
func (m *MemoryStore) GetAllChunks() ([]*types.ChunkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*types.ChunkRecord, 0, len(m.chunks))
	for _, r := range m.chunks {
		copied := *r
		records = append(records, &copied)
	}
	sortRecords(records)
	return records, nil
}

// GetSources retrieves every source with its provenance, ordered by ID.
func (m *MemoryStore) GetSources() ([]*Source, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sources := make([]*Source, 0, len(m.sources))
	for id, size := range m.sources {
		src := &Source{ID: id, Size: size}
		for _, row := range m.provenance[id] {
			prov, err := decodeProvenance(row)
			if err != nil {
				return nil, fmt.Errorf("decoding provenance of %s: %w", id, err)
			}
			src.Provenance = append(src.Provenance, prov)
		}
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].ID.Hex() < sources[j].ID.Hex()
	})
	return sources, nil
}

// SourceExists checks if a source has already been indexed.
func (m *MemoryStore) SourceExists(id types.ChunkID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.sources[id]
	return exists, nil
}

// Close marks the store closed. Data stays readable.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func sortRecords(records []*types.ChunkRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.SourceID != b.SourceID {
			return a.SourceID.Hex() < b.SourceID.Hex()
		}
		return a.Index < b.Index
	})
}
