package stream

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/praetorian-inc/chunkpos/pkg/chunk"
	"github.com/praetorian-inc/chunkpos/pkg/splitter"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// ErrOffsetOutOfRange is returned by Locate for offsets outside the document.
var ErrOffsetOutOfRange = errors.New("offset out of range")

// Document is an ordered sequence of chunks composed forward from a start
// position. Chunks are only ever appended; the document never re-scans
// content it already holds.
type Document struct {
	mu      sync.RWMutex
	start   types.Position
	chunks  []*chunk.Chunk
	offsets []int64 // byte offset at which each chunk starts
	spans   []types.Span
	flats   []types.Position // file position at which each chunk starts
	size    int64
}

// NewDocument creates a document starting at start and appends chunks.
func NewDocument(start types.Position, chunks ...*chunk.Chunk) *Document {
	d := &Document{start: start}
	for _, c := range chunks {
		d.Append(c)
	}
	return d
}

// Split cuts content with config and composes the pieces into a document.
func Split(content []byte, config splitter.Config, start types.Position) *Document {
	d := &Document{start: start}
	for _, p := range splitter.Split(content, config) {
		d.Append(chunk.New(p.Content))
	}
	return d
}

// Append adds c at the end of the document and returns its span.
func (d *Document) Append(c *chunk.Chunk) types.Span {
	d.mu.Lock()
	defer d.mu.Unlock()

	span := types.Span{Start: d.endLocked()}
	span.End = c.CalcEnd(span.Start)
	flat := d.flatEndLocked()

	d.chunks = append(d.chunks, c)
	d.offsets = append(d.offsets, d.size)
	d.spans = append(d.spans, span)
	d.flats = append(d.flats, flat)
	d.size += int64(c.Len())
	return span
}

// Len returns the number of chunks.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.chunks)
}

// Size returns the total content length in bytes.
func (d *Document) Size() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.size
}

// Chunk returns chunk i.
func (d *Document) Chunk(i int) *chunk.Chunk {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.chunks[i]
}

// Offset returns the byte range of chunk i.
func (d *Document) Offset(i int) types.OffsetSpan {
	d.mu.RLock()
	defer d.mu.RUnlock()
	start := d.offsets[i]
	return types.OffsetSpan{Start: start, End: start + int64(d.chunks[i].Len())}
}

// Spans returns a copy of the forward span of every chunk.
func (d *Document) Spans() []types.Span {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]types.Span, len(d.spans))
	copy(out, d.spans)
	return out
}

// End returns the position after the last chunk, or the start position
// for an empty document.
func (d *Document) End() types.Position {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.endLocked()
}

func (d *Document) endLocked() types.Position {
	if len(d.spans) == 0 {
		return d.start
	}
	return d.spans[len(d.spans)-1].End
}

func (d *Document) flatEndLocked() types.Position {
	if len(d.chunks) == 0 {
		return d.start
	}
	last := len(d.chunks) - 1
	return d.chunks[last].Advance(d.flats[last])
}

// Locate returns the file position of an absolute byte offset, the same
// row:column types.PositionAt gives over the concatenated content shifted
// by the document start. It does not depend on how the content was split.
// An offset on a chunk boundary belongs to the later chunk; the
// end-of-document offset belongs to the last chunk.
func (d *Document) Locate(offset int64) (types.Position, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.chunks) == 0 || offset < 0 || offset > d.size {
		return types.Position{}, fmt.Errorf("%w: %d not in [0, %d]", ErrOffsetOutOfRange, offset, d.size)
	}

	i := sort.Search(len(d.offsets), func(i int) bool {
		return d.offsets[i] > offset
	}) - 1

	c, local := d.chunks[i], int(offset-d.offsets[i])
	if local == c.Len() {
		return c.Advance(d.flats[i]), nil
	}
	pos, ok := c.PositionOf(local, d.flats[i])
	if !ok {
		return types.Position{}, fmt.Errorf("%w: %d in chunk %d", ErrOffsetOutOfRange, offset, i)
	}
	return pos, nil
}
