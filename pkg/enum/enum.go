package enum

import (
	"context"

	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// Callback receives one source's content, its content hash and where it
// came from. Returning an error stops the enumeration.
type Callback func(content []byte, id types.ChunkID, prov types.Provenance) error

// Enumerator discovers sources to index.
type Enumerator interface {
	// Enumerate yields sources to callback. Callbacks may run concurrently.
	Enumerate(ctx context.Context, callback Callback) error
}

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Extract enables text extraction from binary documents (comma-separated: docx,xlsx,pdf or 'all').
	Extract string
}
