package enum

import (
	"context"
	"sync"

	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// CombinedEnumerator runs multiple enumerators sequentially and deduplicates
// sources by content hash so each unique source is yielded at most once.
type CombinedEnumerator struct {
	enumerators []Enumerator
}

// NewCombinedEnumerator creates a CombinedEnumerator that wraps the provided
// enumerators. They are run in order and duplicate content is suppressed.
func NewCombinedEnumerator(enumerators ...Enumerator) *CombinedEnumerator {
	return &CombinedEnumerator{enumerators: enumerators}
}

// Enumerate runs each child enumerator in sequence, passing unique sources
// to callback.
func (c *CombinedEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	var mu sync.Mutex
	seen := make(map[types.ChunkID]bool)

	for _, e := range c.enumerators {
		err := e.Enumerate(ctx, func(content []byte, id types.ChunkID, prov types.Provenance) error {
			mu.Lock()
			if seen[id] {
				mu.Unlock()
				return nil
			}
			seen[id] = true
			mu.Unlock()

			return callback(content, id, prov)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
