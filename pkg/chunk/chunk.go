// Package chunk indexes a block of text into its lines and computes the
// row/column positions the block spans when it is composed into a larger
// stream, walking either forward or backward.
//
// Only '\n' terminates a line. A '\r' is an ordinary byte, so content with
// "\r\n" endings keeps the '\r' as the last byte before each '\n'.
package chunk

import (
	"sort"

	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// Position is a zero-based row:column coordinate in the composed stream.
type Position = types.Position

// Chunk is an immutable block of text plus the byte offset at which each of
// its lines starts. A Chunk is never modified after New, so it may be shared
// between goroutines without locking.
type Chunk struct {
	content []byte
	// lineStarts always begins with 0 and ends with len(content).
	lineStarts []int
}

// New builds a Chunk that takes ownership of content. The caller must not
// modify content afterwards. Any byte sequence is valid input.
func New(content []byte) *Chunk {
	lineStarts := []int{0}
	for i, b := range content {
		if b == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	if n := len(lineStarts); n == 1 || lineStarts[n-1] != len(content) {
		lineStarts = append(lineStarts, len(content))
	}
	return &Chunk{content: content, lineStarts: lineStarts}
}

// FromString builds a Chunk from a copy of s.
func FromString(s string) *Chunk {
	return New([]byte(s))
}

// Content returns the chunk's bytes. The returned slice must be treated
// as read-only.
func (c *Chunk) Content() []byte {
	return c.content[:len(c.content):len(c.content)]
}

// Len returns the content length in bytes.
func (c *Chunk) Len() int {
	return len(c.content)
}

// LineStarts returns a copy of the line start offset table.
func (c *Chunk) LineStarts() []int {
	out := make([]int, len(c.lineStarts))
	copy(out, c.lineStarts)
	return out
}

// LineCount returns the number of lines. Empty content has one empty line.
func (c *Chunk) LineCount() int {
	return len(c.lineStarts) - 1
}

// Line returns line idx including its trailing '\n', if any. The result is
// a view into the chunk, not a copy, and is only valid while the chunk is.
// An out of range index yields an empty view; callers that need to tell an
// empty line from a missing one should compare idx with LineCount.
func (c *Chunk) Line(idx int) []byte {
	if idx < 0 || idx >= c.LineCount() {
		return nil
	}
	start, end := c.lineStarts[idx], c.lineStarts[idx+1]
	return c.content[start:end:end]
}

// FirstLine returns Line(0).
func (c *Chunk) FirstLine() []byte {
	return c.Line(0)
}

// LastLine returns Line(LineCount()-1).
func (c *Chunk) LastLine() []byte {
	return c.Line(c.LineCount() - 1)
}

// ContinueToNextChunk reports whether the content is non-empty and ends
// with '\n'. Every position calculation pivots on this.
func (c *Chunk) ContinueToNextChunk() bool {
	return len(c.content) > 0 && c.content[len(c.content)-1] == '\n'
}

// LineIndex returns the index of the line holding byte offset, or -1 when
// offset lies outside [0, Len()]. The end-of-content offset belongs to the
// last line.
func (c *Chunk) LineIndex(offset int) int {
	if offset < 0 || offset > len(c.content) {
		return -1
	}
	idx := sort.Search(len(c.lineStarts), func(i int) bool {
		return c.lineStarts[i] > offset
	}) - 1
	if last := c.LineCount() - 1; idx > last {
		idx = last
	}
	return idx
}
