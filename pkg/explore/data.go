package explore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/chunkpos/pkg/datastore"
	"github.com/praetorian-inc/chunkpos/pkg/store"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// exploreData holds all loaded data for the TUI.
type exploreData struct {
	store   store.Store
	content *datastore.SourceStore // nil when sources were not stored
	sources []*sourceRow
}

// loadData opens a datastore and loads every source with its chunks.
// The storePath can be a datastore directory or a direct .db file path.
func loadData(storePath string) (*exploreData, error) {
	if _, err := os.Stat(storePath); err != nil {
		return nil, fmt.Errorf("datastore not found: %s", storePath)
	}
	dbPath := datastore.ResolveDBPath(storePath)

	s, err := store.New(store.Config{Path: dbPath})
	if err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}

	sources, err := s.GetSources()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("retrieving sources: %w", err)
	}

	chunks, err := s.GetAllChunks()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("retrieving chunks: %w", err)
	}

	chunksBySource := make(map[types.ChunkID][]*types.ChunkRecord)
	for _, c := range chunks {
		chunksBySource[c.SourceID] = append(chunksBySource[c.SourceID], c)
	}

	rows := make([]*sourceRow, 0, len(sources))
	for _, src := range sources {
		rows = append(rows, buildSourceRow(src, chunksBySource[src.ID]))
	}

	return &exploreData{
		store:   s,
		content: datastore.SourcesFor(dbPath),
		sources: rows,
	}, nil
}

// buildSourceRow creates a sourceRow from a stored source and its chunks.
// Chunks must already be ordered by index.
func buildSourceRow(src *store.Source, chunks []*types.ChunkRecord) *sourceRow {
	row := &sourceRow{
		ID:         src.ID,
		Path:       src.DisplayPath(),
		Size:       src.Size,
		Provenance: src.Provenance,
		Chunks:     chunks,
		Extension:  extensionOf(src.DisplayPath()),
	}

	seen := make(map[string]bool)
	for _, p := range src.Provenance {
		if !seen[p.Kind()] {
			seen[p.Kind()] = true
			row.Kinds = append(row.Kinds, p.Kind())
		}
	}
	if len(row.Kinds) == 0 {
		row.Kinds = []string{"-"}
	}

	for _, c := range chunks {
		row.Lines += c.LineCount
	}
	if n := len(chunks); n > 0 {
		row.End = chunks[n-1].Forward.End
	}

	return row
}

// extensionOf returns the lowercased file extension of a display path, or
// "-" when there is none.
func extensionOf(path string) string {
	// Archive members display as "archive:member"
	if i := strings.LastIndex(path, ":"); i >= 0 {
		path = path[i+1:]
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "-"
	}
	return ext
}

// sourceBytes returns the stored content of a source, if any.
func (d *exploreData) sourceBytes(id types.ChunkID) ([]byte, bool) {
	if d.content == nil {
		return nil, false
	}
	content, err := d.content.Get(id)
	if err != nil {
		return nil, false
	}
	return content, true
}

// close closes the underlying store.
func (d *exploreData) close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
