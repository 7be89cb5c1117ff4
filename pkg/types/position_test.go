package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionAt(t *testing.T) {
	tests := []struct {
		name       string
		content    []byte
		byteOffset int
		want       Position
	}{
		{
			name:       "empty content at offset 0",
			content:    []byte{},
			byteOffset: 0,
			want:       Position{Row: 0, Column: 0},
		},
		{
			name:       "single line at offset 2",
			content:    []byte("hello"),
			byteOffset: 2,
			want:       Position{Row: 0, Column: 2},
		},
		{
			name:       "multi-line at offset 7",
			content:    []byte("hello\nworld"),
			byteOffset: 7,
			want:       Position{Row: 1, Column: 1},
		},
		{
			name:       "offset at newline",
			content:    []byte("hello\nworld"),
			byteOffset: 5,
			want:       Position{Row: 0, Column: 5},
		},
		{
			name:       "offset beyond content length",
			content:    []byte("hello"),
			byteOffset: 100,
			want:       Position{Row: 0, Column: 5},
		},
		{
			name:       "offset at start of second line",
			content:    []byte("hello\nworld"),
			byteOffset: 6,
			want:       Position{Row: 1, Column: 0},
		},
		{
			name:       "carriage return is an ordinary byte",
			content:    []byte("ab\r\ncd"),
			byteOffset: 3,
			want:       Position{Row: 0, Column: 3},
		},
		{
			name:       "multiple newlines",
			content:    []byte("line1\nline2\nline3"),
			byteOffset: 12,
			want:       Position{Row: 2, Column: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PositionAt(tt.content, tt.byteOffset))
		})
	}
}
