package indexer

import (
	"fmt"
	"io"

	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// ContentItem represents a content item to index
type ContentItem struct {
	Source   string            `json:"source"`   // e.g., "stdin", "script:inline:1"
	Content  string            `json:"content"`  // the actual content to index
	Metadata map[string]string `json:"metadata"` // optional metadata
}

// IndexResult represents the chunk index of a single source
type IndexResult struct {
	SourceID types.ChunkID        `json:"source_id" yaml:"source_id"`
	Source   string               `json:"source" yaml:"source"`
	Size     int64                `json:"size" yaml:"size"`
	Chunks   []*types.ChunkRecord `json:"chunks" yaml:"chunks"`
	End      types.Position       `json:"end" yaml:"end"`
	Skipped  bool                 `json:"skipped,omitempty" yaml:"skipped,omitempty"` // already indexed (incremental mode)
}

// BatchIndexResult represents batch index results
type BatchIndexResult struct {
	Results []IndexResult `json:"results"`
	Total   int           `json:"total"` // total number of chunks
}

// DebugLogger provides platform-specific logging
type DebugLogger interface {
	Log(format string, args ...interface{})
}

// NoopLogger is a no-op logger
type NoopLogger struct{}

func (NoopLogger) Log(format string, args ...interface{}) {}

// WriterLogger writes one line per message to W.
type WriterLogger struct {
	W io.Writer
}

func (l WriterLogger) Log(format string, args ...interface{}) {
	fmt.Fprintf(l.W, "debug: "+format+"\n", args...)
}
