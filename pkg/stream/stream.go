// Package stream composes chunks into a position stream.
//
// Forward composition feeds each chunk's end position into the next chunk
// as its start. Backward composition prepends chunks before a known
// suffix, walking from the last chunk to the first.
package stream

import (
	"github.com/praetorian-inc/chunkpos/pkg/chunk"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// Forward returns one span per chunk, in document order. Each span starts
// where the previous one ended.
func Forward(chunks []*chunk.Chunk, start types.Position) []types.Span {
	spans := make([]types.Span, len(chunks))
	pos := start
	for i, c := range chunks {
		end := c.CalcEnd(pos)
		spans[i] = types.Span{Start: pos, End: end}
		pos = end
	}
	return spans
}

// Backward prepends chunks one at a time, last chunk first, starting from
// the position of the suffix they precede. The span start is the running
// position shifted by CalcBackwardStart and the span end is
// CalcBackwardEnd of the running position, which then becomes the running
// position for the chunk before. Spans are returned in document order.
func Backward(chunks []*chunk.Chunk, start types.Position) []types.Span {
	spans := make([]types.Span, len(chunks))
	pos := start
	for i := len(chunks) - 1; i >= 0; i-- {
		c := chunks[i]

		shift := c.CalcBackwardStart()
		spanStart := pos
		spanStart.Row += shift.Row
		spanStart.Column += shift.Column

		end := c.CalcBackwardEnd(pos)
		spans[i] = types.Span{Start: spanStart, End: end}
		pos = end
	}
	return spans
}
