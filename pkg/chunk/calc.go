package chunk

// CalcEnd returns the position immediately after the chunk, given the
// position at which it begins.
//
// A chunk that does not end with '\n' is treated as completing its last
// line, so the result moves to column 0 of the following row. A chunk that
// does end with '\n' leaves the result on its last line, after that '\n'.
func (c *Chunk) CalcEnd(start Position) Position {
	end := start
	if len(c.content) == 0 {
		return end
	}

	lastLine := c.LineCount() - 1

	end.Row += lastLine
	if end.Row != start.Row {
		end.Column = 0
	}
	end.Column += len(c.Line(lastLine))

	if !c.ContinueToNextChunk() {
		end.Row++
		end.Column = 0
	}
	return end
}

// CalcBackwardStart returns the column shift to apply at the start of the
// chunk when it is prepended before content whose first line continues it.
// Row is always 0.
func (c *Chunk) CalcBackwardStart() Position {
	var pos Position
	if len(c.content) == 0 {
		return pos
	}
	if c.ContinueToNextChunk() {
		pos.Column += len(c.LastLine())
	}
	return pos
}

// CalcBackwardEnd walks the chunk backward from start, the position where
// the chunk that follows it begins, and returns the position before it.
//
// When the walk crosses a row, the column lands one before the end of the
// first line unless the chunk opens with '\n'. The first line is then
// non-empty, so the column is never negative.
func (c *Chunk) CalcBackwardEnd(start Position) Position {
	end := start
	if len(c.content) == 0 {
		return end
	}

	end.Row += c.LineCount() - 1
	if c.ContinueToNextChunk() {
		end.Row++
	}

	if end.Row != start.Row {
		end.Column = 0
		if c.content[0] != '\n' {
			end.Column = len(c.FirstLine()) - 1
		}
	} else {
		end.Column += len(c.LastLine())
	}
	return end
}

// PositionOf returns the position of byte offset within the chunk when the
// chunk begins at start. Rows advance by line index and the column restarts
// at 0 on every line after the first, the same bookkeeping CalcEnd applies
// before its trailing-newline adjustment. ok is false when offset lies
// outside [0, Len()].
func (c *Chunk) PositionOf(offset int, start Position) (pos Position, ok bool) {
	idx := c.LineIndex(offset)
	if idx < 0 {
		return Position{}, false
	}

	pos = start
	pos.Row += idx
	if idx > 0 {
		pos.Column = 0
	}
	pos.Column += offset - c.lineStarts[idx]
	return pos, true
}

// Advance returns the flat file position after the chunk when it begins at
// start. Unlike CalcEnd it counts only the newlines the chunk holds, so a
// trailing '\n' moves to column 0 of the next row and an unterminated last
// line leaves the column after its final byte.
func (c *Chunk) Advance(start Position) Position {
	newlines := c.LineCount() - 1
	if c.ContinueToNextChunk() {
		newlines++
	}

	end := start
	switch {
	case newlines == 0:
		end.Column += len(c.content)
	case c.ContinueToNextChunk():
		end.Row += newlines
		end.Column = 0
	default:
		end.Row += newlines
		end.Column = len(c.LastLine())
	}
	return end
}
