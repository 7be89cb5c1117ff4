package types

import "fmt"

// Position is a zero-based row:column coordinate in a composed stream.
// It is independent of any single chunk's internal byte offsets.
type Position struct {
	Row    int `json:"row" yaml:"row"`
	Column int `json:"column" yaml:"column"`
}

// String renders the position as "row:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

// Before reports whether p sorts strictly before o.
func (p Position) Before(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Column < o.Column
}

// OffsetSpan is byte range [Start, End) - half-open interval.
type OffsetSpan struct {
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end" yaml:"end"`
}

// Len returns the number of bytes covered by the span.
func (s OffsetSpan) Len() int64 {
	return s.End - s.Start
}

// Span is a start-end position range.
type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// String renders the span as "start-end".
func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}
