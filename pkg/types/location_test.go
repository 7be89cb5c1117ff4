package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetSpan(t *testing.T) {
	span := OffsetSpan{Start: 10, End: 20}
	assert.Equal(t, int64(10), span.Start)
	assert.Equal(t, int64(20), span.End)
	assert.Equal(t, int64(10), span.Len())
}

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "0:0", Position{}.String())
	assert.Equal(t, "4:12", Position{Row: 4, Column: 12}.String())
}

func TestPosition_Before(t *testing.T) {
	tests := []struct {
		name string
		a, b Position
		want bool
	}{
		{"earlier row", Position{Row: 1, Column: 9}, Position{Row: 2, Column: 0}, true},
		{"later row", Position{Row: 3, Column: 0}, Position{Row: 2, Column: 9}, false},
		{"same row earlier column", Position{Row: 2, Column: 1}, Position{Row: 2, Column: 5}, true},
		{"equal", Position{Row: 2, Column: 5}, Position{Row: 2, Column: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Before(tt.b))
		})
	}
}

func TestSpan(t *testing.T) {
	span := Span{
		Start: Position{Row: 1, Column: 5},
		End:   Position{Row: 3, Column: 10},
	}
	assert.Equal(t, 1, span.Start.Row)
	assert.Equal(t, 5, span.Start.Column)
	assert.Equal(t, 3, span.End.Row)
	assert.Equal(t, 10, span.End.Column)
	assert.Equal(t, "1:5-3:10", span.String())
}
