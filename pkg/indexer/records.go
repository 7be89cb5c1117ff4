package indexer

import (
	"github.com/praetorian-inc/chunkpos/pkg/chunk"
	"github.com/praetorian-inc/chunkpos/pkg/stream"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// Records builds one record per chunk of doc. Forward spans come from the
// document; backward spans are composed from the end of the source, so
// they count rows and columns back from the last byte.
func Records(doc *stream.Document, sourceID types.ChunkID) []*types.ChunkRecord {
	n := doc.Len()
	chunks := make([]*chunk.Chunk, n)
	for i := range chunks {
		chunks[i] = doc.Chunk(i)
	}

	forward := doc.Spans()
	backward := stream.Backward(chunks, types.Position{})

	records := make([]*types.ChunkRecord, n)
	for i, c := range chunks {
		records[i] = &types.ChunkRecord{
			ID:              types.ComputeChunkID(c.Content()),
			SourceID:        sourceID,
			Index:           i,
			Offset:          doc.Offset(i),
			Forward:         forward[i],
			Backward:        backward[i],
			LineCount:       c.LineCount(),
			EndsWithNewline: c.ContinueToNextChunk(),
		}
	}
	return records
}

// sameLayout reports whether stored holds exactly the chunks in fresh, so an
// incremental run may reuse it.
func sameLayout(stored, fresh []*types.ChunkRecord) bool {
	if len(stored) != len(fresh) {
		return false
	}
	for i := range stored {
		if *stored[i] != *fresh[i] {
			return false
		}
	}
	return true
}
