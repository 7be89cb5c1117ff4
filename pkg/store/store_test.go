//go:build !wasm

package store

import (
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/chunkpos/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every Store implementation.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func testRecord(source []byte, index int, content string) *types.ChunkRecord {
	return &types.ChunkRecord{
		ID:       types.ComputeChunkID([]byte(content)),
		SourceID: types.ComputeChunkID(source),
		Index:    index,
		Offset:   types.OffsetSpan{Start: int64(index * 10), End: int64(index*10 + len(content))},
		Forward: types.Span{
			Start: types.Position{Row: index, Column: 0},
			End:   types.Position{Row: index + 1, Column: 0},
		},
		Backward: types.Span{
			Start: types.Position{Row: index, Column: 3},
			End:   types.Position{Row: index, Column: 7},
		},
		LineCount:       1,
		EndsWithNewline: index%2 == 0,
	}
}

func TestNew(t *testing.T) {
	s, err := New(Config{Path: MemoryPath})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	require.NoError(t, s.Close())

	s, err = New(Config{Path: filepath.Join(t.TempDir(), "index.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())
}

func TestNew_EmptyPath(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestStore_SourceRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := types.ComputeChunkID([]byte("hello\nworld"))

			exists, err := s.SourceExists(id)
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, s.AddSource(id, 11))
			require.NoError(t, s.AddSource(id, 11), "adding twice is idempotent")

			exists, err = s.SourceExists(id)
			require.NoError(t, err)
			assert.True(t, exists)

			sources, err := s.GetSources()
			require.NoError(t, err)
			require.Len(t, sources, 1)
			assert.Equal(t, id, sources[0].ID)
			assert.Equal(t, int64(11), sources[0].Size)
			assert.Empty(t, sources[0].Provenance)
			assert.Equal(t, id.Short(), sources[0].DisplayPath())
		})
	}
}

func TestStore_Provenance(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := types.ComputeChunkID([]byte("content"))
			require.NoError(t, s.AddSource(id, 7))

			provs := []types.Provenance{
				types.FileProvenance{FilePath: "/tmp/a.txt"},
				types.GitProvenance{
					RepoPath: "/repo",
					BlobPath: "src/a.txt",
					Commit:   &types.CommitMetadata{CommitID: "abc123"},
				},
				types.ArchiveProvenance{ArchivePath: "/tmp/doc.docx", MemberPath: "word/document.xml"},
				types.NamedProvenance{Name: "stdin"},
			}
			for _, p := range provs {
				require.NoError(t, s.AddProvenance(id, p))
			}
			// Duplicates are ignored.
			require.NoError(t, s.AddProvenance(id, types.FileProvenance{FilePath: "/tmp/a.txt"}))

			sources, err := s.GetSources()
			require.NoError(t, err)
			require.Len(t, sources, 1)
			require.Len(t, sources[0].Provenance, len(provs))

			kinds := make(map[string]types.Provenance)
			for _, p := range sources[0].Provenance {
				kinds[p.Kind()] = p
			}
			assert.Equal(t, types.FileProvenance{FilePath: "/tmp/a.txt"}, kinds["file"])
			assert.Equal(t, types.NamedProvenance{Name: "stdin"}, kinds["named"])
			assert.Equal(t, types.ArchiveProvenance{ArchivePath: "/tmp/doc.docx", MemberPath: "word/document.xml"}, kinds["archive"])

			git, ok := kinds["git"].(types.GitProvenance)
			require.True(t, ok)
			assert.Equal(t, "/repo", git.RepoPath)
			assert.Equal(t, "src/a.txt", git.BlobPath)
			require.NotNil(t, git.Commit)
			assert.Equal(t, "abc123", git.Commit.CommitID)
		})
	}
}

func TestStore_Chunks(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			source := []byte("first\nsecond\n")
			sourceID := types.ComputeChunkID(source)
			require.NoError(t, s.AddSource(sourceID, int64(len(source))))

			// Insert out of order; reads come back ordered by index.
			second := testRecord(source, 1, "second\n")
			first := testRecord(source, 0, "first\n")
			require.NoError(t, s.AddChunk(second))
			require.NoError(t, s.AddChunk(first))
			require.NoError(t, s.AddChunk(first), "re-adding a chunk is a no-op")

			chunks, err := s.GetChunks(sourceID)
			require.NoError(t, err)
			require.Len(t, chunks, 2)
			assert.Equal(t, first, chunks[0])
			assert.Equal(t, second, chunks[1])

			other := []byte("other")
			otherRecord := testRecord(other, 0, "other")
			require.NoError(t, s.AddSource(otherRecord.SourceID, 5))
			require.NoError(t, s.AddChunk(otherRecord))

			chunks, err = s.GetChunks(sourceID)
			require.NoError(t, err)
			assert.Len(t, chunks, 2)

			all, err := s.GetAllChunks()
			require.NoError(t, err)
			assert.Len(t, all, 3)
			for i := 1; i < len(all); i++ {
				prev, cur := all[i-1], all[i]
				if prev.SourceID == cur.SourceID {
					assert.Less(t, prev.Index, cur.Index)
				} else {
					assert.Less(t, prev.SourceID.Hex(), cur.SourceID.Hex())
				}
			}
		})
	}
}

func TestStore_ReplaceChunks(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			source := []byte("aaa\nbbb\nccc\n")
			sourceID := types.ComputeChunkID(source)
			require.NoError(t, s.AddSource(sourceID, int64(len(source))))

			other := testRecord([]byte("other"), 0, "other")
			require.NoError(t, s.AddSource(other.SourceID, 5))
			require.NoError(t, s.AddChunk(other))

			narrow := []*types.ChunkRecord{
				testRecord(source, 0, "aaa\n"),
				testRecord(source, 1, "bbb\n"),
				testRecord(source, 2, "ccc\n"),
			}
			require.NoError(t, s.ReplaceChunks(sourceID, narrow))

			wide := []*types.ChunkRecord{
				testRecord(source, 0, "aaa\nbbb\n"),
				testRecord(source, 1, "ccc\n"),
			}
			require.NoError(t, s.ReplaceChunks(sourceID, wide))

			chunks, err := s.GetChunks(sourceID)
			require.NoError(t, err)
			assert.Equal(t, wide, chunks)

			otherChunks, err := s.GetChunks(other.SourceID)
			require.NoError(t, err)
			assert.Equal(t, []*types.ChunkRecord{other}, otherChunks)

			err = s.ReplaceChunks(sourceID, []*types.ChunkRecord{other})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "belongs to source")

			chunks, err = s.GetChunks(sourceID)
			require.NoError(t, err)
			assert.Equal(t, wide, chunks, "a rejected replacement keeps the old chunks")

			require.NoError(t, s.ReplaceChunks(sourceID, nil))
			chunks, err = s.GetChunks(sourceID)
			require.NoError(t, err)
			assert.Empty(t, chunks)
		})
	}
}

func TestStore_GetChunksUnknownSource(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			chunks, err := s.GetChunks(types.ComputeChunkID([]byte("missing")))
			require.NoError(t, err)
			assert.Empty(t, chunks)
		})
	}
}

func TestSource_DisplayPath(t *testing.T) {
	src := &Source{
		ID: types.ComputeChunkID([]byte("x")),
		Provenance: []types.Provenance{
			types.NamedProvenance{},
			types.FileProvenance{FilePath: "/a/b.txt"},
		},
	}
	assert.Equal(t, "/a/b.txt", src.DisplayPath())
}
