package enum

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/praetorian-inc/chunkpos/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestGitRepo creates a repository with one commit holding files.
func setupTestGitRepo(t *testing.T, files map[string][]byte) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, content, 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	_, err = wt.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	return dir
}

func TestGitEnumerator(t *testing.T) {
	repoPath := setupTestGitRepo(t, map[string][]byte{
		"file1.txt":         []byte("hello from git\n"),
		"file2.txt":         []byte("another file"),
		"subdir/nested.txt": []byte("nested content\n"),
	})

	found := make(map[string]string)
	err := NewGitEnumerator(Config{Root: repoPath}).Enumerate(context.Background(),
		func(content []byte, id types.ChunkID, prov types.Provenance) error {
			assert.Equal(t, types.ComputeChunkID(content), id)

			gitProv, ok := prov.(types.GitProvenance)
			require.True(t, ok, "expected GitProvenance, got %T", prov)
			assert.Equal(t, repoPath, gitProv.RepoPath)
			require.NotNil(t, gitProv.Commit)
			assert.Equal(t, "Test User", gitProv.Commit.AuthorName)
			assert.Equal(t, "Initial commit", gitProv.Commit.Message)

			found[prov.Path()] = string(content)
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"file1.txt":         "hello from git\n",
		"file2.txt":         "another file",
		"subdir/nested.txt": "nested content\n",
	}, found)
}

func TestGitEnumerator_SkipsBinaryAndLarge(t *testing.T) {
	repoPath := setupTestGitRepo(t, map[string][]byte{
		"text.txt":   []byte("text"),
		"binary.bin": {0x00, 0x01, 0x02},
		"large.txt":  []byte("this one is well over the limit"),
	})

	var paths []string
	err := NewGitEnumerator(Config{Root: repoPath, MaxFileSize: 10}).Enumerate(context.Background(),
		func(content []byte, id types.ChunkID, prov types.Provenance) error {
			paths = append(paths, prov.Path())
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"text.txt"}, paths)
}

func TestGitEnumerator_DuplicateBlobs(t *testing.T) {
	repoPath := setupTestGitRepo(t, map[string][]byte{
		"a.txt": []byte("same content"),
		"b.txt": []byte("same content"),
	})

	count := 0
	err := NewGitEnumerator(Config{Root: repoPath}).Enumerate(context.Background(),
		func(content []byte, id types.ChunkID, prov types.Provenance) error {
			count++
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, 1, count)
}

func TestGitEnumerator_NotARepository(t *testing.T) {
	err := NewGitEnumerator(Config{Root: t.TempDir()}).Enumerate(context.Background(),
		func(content []byte, id types.ChunkID, prov types.Provenance) error {
			return nil
		})

	assert.Error(t, err)
}

func TestGitEnumerator_ContextCancellation(t *testing.T) {
	repoPath := setupTestGitRepo(t, map[string][]byte{"a.txt": []byte("a")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewGitEnumerator(Config{Root: repoPath}).Enumerate(ctx,
		func(content []byte, id types.ChunkID, prov types.Provenance) error {
			return nil
		})

	assert.ErrorIs(t, err, context.Canceled)
}
