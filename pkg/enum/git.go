package enum

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// GitEnumerator enumerates the blobs of one commit of a git repository.
type GitEnumerator struct {
	config Config
	// CommitRef optionally specifies a specific commit to enumerate (defaults to HEAD)
	CommitRef string
}

// NewGitEnumerator creates a new git enumerator.
func NewGitEnumerator(config Config) *GitEnumerator {
	return &GitEnumerator{
		config:    config,
		CommitRef: "HEAD",
	}
}

// Enumerate walks the commit tree and yields unique text blobs.
func (e *GitEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	repo, err := git.PlainOpen(e.config.Root)
	if err != nil {
		return fmt.Errorf("failed to open git repository: %w", err)
	}

	ref, err := repo.ResolveRevision(plumbing.Revision(e.CommitRef))
	if err != nil {
		return fmt.Errorf("failed to resolve ref %s: %w", e.CommitRef, err)
	}

	commit, err := repo.CommitObject(*ref)
	if err != nil {
		return fmt.Errorf("failed to get commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("failed to get tree: %w", err)
	}

	commitMeta := &types.CommitMetadata{
		CommitID:   commit.Hash.String(),
		AuthorName: commit.Author.Name,
		Timestamp:  commit.Committer.When,
		Message:    commit.Message,
	}

	seen := make(map[plumbing.Hash]bool)

	err = tree.Files().ForEach(func(f *object.File) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if seen[f.Hash] {
			return nil
		}
		seen[f.Hash] = true

		if e.config.MaxFileSize > 0 && f.Size > e.config.MaxFileSize {
			return nil
		}

		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("failed to get contents of %s: %w", f.Name, err)
		}

		data := []byte(content)
		if isBinary(data) {
			return nil
		}

		prov := types.GitProvenance{
			RepoPath: e.config.Root,
			Commit:   commitMeta,
			BlobPath: f.Name,
		}
		return callback(data, types.ComputeChunkID(data), prov)
	})

	if err != nil {
		return fmt.Errorf("failed to walk tree: %w", err)
	}

	return nil
}
