package types

// PositionAt computes the zero-based row and column of a byte offset in a
// flat buffer. Offsets past the end clamp to the end of content.
// Only '\n' starts a new row.
func PositionAt(content []byte, byteOffset int) Position {
	var pos Position
	for i := 0; i < byteOffset && i < len(content); i++ {
		if content[i] == '\n' {
			pos.Row++
			pos.Column = 0
		} else {
			pos.Column++
		}
	}
	return pos
}
