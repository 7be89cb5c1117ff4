package types

// ChunkRecord is one indexed chunk of a source.
type ChunkRecord struct {
	ID        ChunkID    `json:"id" yaml:"id"`
	SourceID  ChunkID    `json:"source_id" yaml:"source_id"`
	Index     int        `json:"index" yaml:"index"`
	Offset    OffsetSpan `json:"offset" yaml:"offset"`
	Forward   Span       `json:"forward" yaml:"forward"`
	Backward  Span       `json:"backward" yaml:"backward"`
	LineCount int        `json:"line_count" yaml:"line_count"`
	// EndsWithNewline mirrors Chunk.ContinueToNextChunk.
	EndsWithNewline bool `json:"ends_with_newline" yaml:"ends_with_newline"`
}
