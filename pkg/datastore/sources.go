package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// SourceStore manages content-addressable storage of indexed sources.
type SourceStore struct {
	Root string
}

// Put writes content to source storage and returns its ID.
// The ID is the git blob hash of the content, the same ID the index uses.
func (b *SourceStore) Put(content []byte) (types.ChunkID, error) {
	id := types.ComputeChunkID(content)

	// Content-addressable: an existing file already holds these bytes
	path := b.sourcePath(id)
	if _, err := os.Stat(path); err == nil {
		return id, nil
	}

	// Create prefix directory if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return types.ChunkID{}, fmt.Errorf("creating source directory: %w", err)
	}

	// Write atomically using temp file + rename
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return types.ChunkID{}, fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := tempFile.Name()
	if _, err := tempFile.Write(content); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return types.ChunkID{}, fmt.Errorf("writing source: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return types.ChunkID{}, fmt.Errorf("writing source: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file on failure
		return types.ChunkID{}, fmt.Errorf("renaming source: %w", err)
	}

	return id, nil
}

// Get retrieves content by source ID.
func (b *SourceStore) Get(id types.ChunkID) ([]byte, error) {
	content, err := os.ReadFile(b.sourcePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source not found: %s", id.Hex())
		}
		return nil, fmt.Errorf("reading source: %w", err)
	}

	return content, nil
}

// Exists checks if a source is stored.
func (b *SourceStore) Exists(id types.ChunkID) bool {
	_, err := os.Stat(b.sourcePath(id))
	return err == nil
}

// sourcePath returns the file path for a source ID.
// Uses git-style 2-char prefix: sources/ab/cdef1234...
func (b *SourceStore) sourcePath(id types.ChunkID) string {
	hexID := id.Hex()
	return filepath.Join(b.Root, hexID[:2], hexID[2:])
}
