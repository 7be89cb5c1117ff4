package chunkpos

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexer(t *testing.T) {
	indexer, err := NewIndexer()
	require.NoError(t, err)
	defer indexer.Close()

	records, err := indexer.IndexString("first line\nsecond line\n")
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, Span{Start: Position{}, End: Position{Row: 1, Column: 12}}, r.Forward)
	assert.Equal(t, 2, r.LineCount)
	assert.True(t, r.EndsWithNewline)
}

func TestNewIndexerWithOptions(t *testing.T) {
	indexer, err := NewIndexer(
		WithMaxChunkSize(3),
		WithSplitMode(SplitLines),
		WithStart(Position{Row: 5, Column: 0}),
	)
	require.NoError(t, err)
	defer indexer.Close()

	records, err := indexer.IndexString("ab\ncd")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Position{Row: 5, Column: 0}, records[0].Forward.Start)
	assert.Equal(t, Position{Row: 5, Column: 3}, records[0].Forward.End)
	assert.Equal(t, records[0].Forward.End, records[1].Forward.Start)
	assert.Equal(t, Position{Row: 6, Column: 0}, records[1].Forward.End)
}

func TestNewIndexerInvalidMode(t *testing.T) {
	_, err := NewIndexer(WithSplitMode("sentences"))
	require.Error(t, err)
}

func TestIndexBytesByteMode(t *testing.T) {
	indexer, err := NewIndexer(WithMaxChunkSize(4), WithSplitMode(SplitBytes))
	require.NoError(t, err)
	defer indexer.Close()

	content := []byte("0123456789")
	records, err := indexer.IndexBytes(content)
	require.NoError(t, err)
	require.Len(t, records, 3)

	var rebuilt []byte
	for i, r := range records {
		assert.Equal(t, i, r.Index)
		rebuilt = append(rebuilt, content[r.Offset.Start:r.Offset.End]...)
	}
	assert.Equal(t, content, rebuilt)
}

func TestIndexFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc"), 0644))

	indexer, err := NewIndexer()
	require.NoError(t, err)
	defer indexer.Close()

	records, err := indexer.IndexFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].LineCount)

	_, err = indexer.IndexFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading file")
}

func TestLocate(t *testing.T) {
	indexer, err := NewIndexer()
	require.NoError(t, err)
	defer indexer.Close()

	pos, err := indexer.Locate([]byte("ab\ncd"), 3)
	require.NoError(t, err)
	assert.Equal(t, Position{Row: 1, Column: 0}, pos)

	_, err = indexer.Locate([]byte("ab\ncd"), -1)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestNewChunk(t *testing.T) {
	c := NewChunk([]byte("ab\ncd"))
	assert.Equal(t, 2, c.LineCount())
	assert.Equal(t, Position{Row: 2, Column: 0}, c.CalcEnd(Position{}))
	assert.Equal(t, "2:0", c.CalcEnd(Position{}).String())
}

func TestClosedIndexer(t *testing.T) {
	indexer, err := NewIndexer()
	require.NoError(t, err)
	require.NoError(t, indexer.Close())
	require.NoError(t, indexer.Close(), "closing twice is safe")

	_, err = indexer.IndexString("x")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = indexer.Locate([]byte("x"), 0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestConcurrentIndexing(t *testing.T) {
	indexer, err := NewIndexer(WithMaxChunkSize(16))
	require.NoError(t, err)
	defer indexer.Close()

	content := strings.Repeat("some text\n", 20)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := indexer.IndexString(content)
			assert.NoError(t, err)
			assert.NotEmpty(t, records)
		}()
	}
	wg.Wait()
}
