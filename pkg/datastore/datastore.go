// Package datastore lays out an index as a directory: the SQLite index,
// optional source content and cached git clones.
package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/chunkpos/pkg/store"
)

// DBName is the index database file inside a datastore directory.
const DBName = "datastore.db"

// Datastore manages a directory-based datastore.
type Datastore struct {
	Path       string       // Directory path (e.g., "chunkpos.ds")
	Store      store.Store  // SQLite store for chunk records
	Sources    *SourceStore // Optional source content storage (nil unless StoreSources)
	CloneCache *CloneCache  // Git clone cache manager
}

// Options configures datastore behavior.
type Options struct {
	StoreSources bool // Keep indexed content (--store-sources flag)
}

// Open opens or creates a datastore directory.
func Open(path string, opts Options) (*Datastore, error) {
	if path == "" {
		return nil, fmt.Errorf("datastore path is required")
	}

	// Create main directory
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating datastore directory: %w", err)
	}

	// Create subdirectories
	subdirs := []string{"clones"}
	if opts.StoreSources {
		subdirs = append(subdirs, "sources")
	}
	for _, subdir := range subdirs {
		if err := os.MkdirAll(filepath.Join(path, subdir), 0755); err != nil {
			return nil, fmt.Errorf("creating %s directory: %w", subdir, err)
		}
	}

	// Write .gitignore
	gitignorePath := filepath.Join(path, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("*\n"), 0644); err != nil {
		return nil, fmt.Errorf("writing .gitignore: %w", err)
	}

	s, err := store.New(store.Config{Path: filepath.Join(path, DBName)})
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	ds := &Datastore{
		Path:       path,
		Store:      s,
		CloneCache: &CloneCache{Root: filepath.Join(path, "clones")},
	}

	// Content stored by an earlier run stays readable.
	sourcesDir := filepath.Join(path, "sources")
	if _, err := os.Stat(sourcesDir); err == nil {
		ds.Sources = &SourceStore{Root: sourcesDir}
	}

	return ds, nil
}

// ResolveDBPath returns the database file for path, which may name either
// a database file or a datastore directory.
func ResolveDBPath(path string) string {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return filepath.Join(path, DBName)
	}
	return path
}

// SourcesFor returns the source content storage of the datastore directory
// holding dbPath, or nil when there is none.
func SourcesFor(dbPath string) *SourceStore {
	dir := filepath.Join(filepath.Dir(dbPath), "sources")
	if filepath.Base(dbPath) != DBName {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}
	return &SourceStore{Root: dir}
}

// Close closes the datastore and releases resources.
func (d *Datastore) Close() error {
	if d.Store != nil {
		return d.Store.Close()
	}
	return nil
}
