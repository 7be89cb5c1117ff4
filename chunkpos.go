// Package chunkpos maps byte offsets in chunked content to row/column
// positions.
//
// Content is split into chunks; each chunk records where its lines start
// so that positions compose from one chunk to the next without rescanning
// earlier chunks.
//
// # Basic Usage
//
// Create an indexer and index content:
//
//	indexer, err := chunkpos.NewIndexer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer indexer.Close()
//
//	records, err := indexer.IndexString("first line\nsecond line\n")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, r := range records {
//	    fmt.Printf("chunk %d: %s\n", r.Index, r.Forward)
//	}
//
// # Working With Chunks Directly
//
//	c := chunkpos.NewChunk([]byte("ab\ncd"))
//	end := c.CalcEnd(chunkpos.Position{})
//	fmt.Println(end) // 2:0
package chunkpos

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/praetorian-inc/chunkpos/pkg/chunk"
	"github.com/praetorian-inc/chunkpos/pkg/indexer"
	"github.com/praetorian-inc/chunkpos/pkg/splitter"
	"github.com/praetorian-inc/chunkpos/pkg/stream"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/chunkpos" without subpackages.
type (
	// Position is a zero-based row/column pair.
	Position = types.Position

	// Span is the start and end position of a chunk.
	Span = types.Span

	// ChunkRecord is one indexed chunk of a source.
	ChunkRecord = types.ChunkRecord

	// Chunk is content with its line-offset table.
	Chunk = chunk.Chunk

	// SplitMode selects where content may be cut into chunks.
	SplitMode = splitter.Mode
)

// Re-export split modes.
const (
	SplitLines = splitter.ModeLines
	SplitBytes = splitter.ModeBytes
)

// ErrOffsetOutOfRange is returned by Locate for offsets outside the content.
var ErrOffsetOutOfRange = stream.ErrOffsetOutOfRange

// ErrClosed is returned by an Indexer after Close.
var ErrClosed = errors.New("indexer is closed")

// NewChunk builds the line-offset table for content. The chunk keeps a
// reference to content, which must not be modified afterwards.
func NewChunk(content []byte) *Chunk {
	return chunk.New(content)
}

// Indexer splits content into chunks and computes their positions.
type Indexer struct {
	core *indexer.Core
	mu   sync.RWMutex
}

// Option configures an Indexer.
type Option func(*indexer.Config)

// WithMaxChunkSize sets the largest chunk in bytes. Zero or less keeps
// content in a single chunk.
func WithMaxChunkSize(size int) Option {
	return func(c *indexer.Config) {
		c.Splitter.MaxChunkSize = size
	}
}

// WithSplitMode selects where chunks may be cut.
// Default is SplitLines.
func WithSplitMode(mode SplitMode) Option {
	return func(c *indexer.Config) {
		c.Splitter.Mode = mode
	}
}

// WithStart sets the position of the first byte of indexed content.
// Default is 0:0.
func WithStart(start Position) Option {
	return func(c *indexer.Config) {
		c.Start = start
	}
}

// NewIndexer creates a new Indexer with the given options.
//
// By default, the indexer:
//   - Cuts chunks of up to 64KB at line boundaries
//   - Starts positions at 0:0
//   - Keeps records in memory
func NewIndexer(opts ...Option) (*Indexer, error) {
	config := indexer.DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	core, err := indexer.NewCore(config, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating indexer: %w", err)
	}
	return &Indexer{core: core}, nil
}

// IndexString indexes a string and returns one record per chunk.
func (x *Indexer) IndexString(content string) ([]*ChunkRecord, error) {
	return x.IndexBytes([]byte(content))
}

// IndexBytes indexes raw bytes and returns one record per chunk.
func (x *Indexer) IndexBytes(content []byte) ([]*ChunkRecord, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.core == nil {
		return nil, ErrClosed
	}

	result, err := x.core.IndexSource(content, nil)
	if err != nil {
		return nil, err
	}
	return result.Chunks, nil
}

// IndexFile reads and indexes a file.
func (x *Indexer) IndexFile(path string) ([]*ChunkRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.core == nil {
		return nil, ErrClosed
	}

	result, err := x.core.IndexSource(content, types.FileProvenance{FilePath: path})
	if err != nil {
		return nil, err
	}
	return result.Chunks, nil
}

// Locate returns the file position of a byte offset within content. The
// answer does not depend on the configured chunk size.
func (x *Indexer) Locate(content []byte, offset int64) (Position, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.core == nil {
		return Position{}, ErrClosed
	}
	return x.core.Locate(content, offset)
}

// Close releases indexer resources.
// Always call Close when done with the indexer.
func (x *Indexer) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.core != nil {
		x.core.Close()
		x.core = nil
	}
	return nil
}
