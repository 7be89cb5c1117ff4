package splitter

import (
	"bytes"
	"fmt"
)

// Mode selects where Split may cut content.
type Mode string

const (
	// ModeLines cuts only after a '\n'. A single line longer than the
	// limit becomes its own oversized piece.
	ModeLines Mode = "lines"
	// ModeBytes cuts every MaxChunkSize bytes, mid-line if need be.
	ModeBytes Mode = "bytes"
)

// ParseMode converts a flag or config value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLines, ModeBytes:
		return Mode(s), nil
	case "":
		return ModeLines, nil
	default:
		return "", fmt.Errorf("unknown split mode %q (want %q or %q)", s, ModeLines, ModeBytes)
	}
}

// Config configures content splitting.
type Config struct {
	MaxChunkSize int  // Maximum size of a piece in bytes (default: 64KB)
	Mode         Mode // Where pieces may be cut (default: lines)
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{
		MaxChunkSize: 64 * 1024, // 64KB
		Mode:         ModeLines,
	}
}

// Piece is a portion of content with its byte range in the original.
type Piece struct {
	Content     []byte // View into the original content
	StartOffset int    // Byte offset in original content where this piece starts
	EndOffset   int    // Byte offset in original content where this piece ends
	Index       int    // Piece number (0-indexed)
}

// Split cuts content into consecutive, non-overlapping pieces whose
// concatenation is content. It always returns at least one piece; empty
// content yields a single empty piece.
func Split(content []byte, config Config) []Piece {
	if config.MaxChunkSize <= 0 || len(content) <= config.MaxChunkSize {
		return []Piece{newPiece(content, 0, len(content), 0)}
	}

	if config.Mode == ModeBytes {
		return splitBytes(content, config.MaxChunkSize)
	}
	return splitLines(content, config.MaxChunkSize)
}

func splitBytes(content []byte, size int) []Piece {
	pieces := make([]Piece, 0, (len(content)+size-1)/size)
	for start := 0; start < len(content); start += size {
		end := start + size
		if end > len(content) {
			end = len(content)
		}
		pieces = append(pieces, newPiece(content, start, end, len(pieces)))
	}
	return pieces
}

func splitLines(content []byte, size int) []Piece {
	var pieces []Piece
	pieceStart := 0
	pos := 0

	for pos < len(content) {
		// End of the current line, including its newline
		lineEnd := len(content)
		if i := bytes.IndexByte(content[pos:], '\n'); i >= 0 {
			lineEnd = pos + i + 1
		}

		// Flush before this line if it would push the piece over the limit
		if lineEnd-pieceStart > size && pos > pieceStart {
			pieces = append(pieces, newPiece(content, pieceStart, pos, len(pieces)))
			pieceStart = pos
		}

		pos = lineEnd
	}

	// Don't forget the last piece
	if pieceStart < len(content) {
		pieces = append(pieces, newPiece(content, pieceStart, len(content), len(pieces)))
	}

	return pieces
}

func newPiece(content []byte, start, end, index int) Piece {
	return Piece{
		Content:     content[start:end:end],
		StartOffset: start,
		EndOffset:   end,
		Index:       index,
	}
}
