//go:build wasm

package store

// New returns a MemoryStore for browser builds. Sources, chunk records and
// provenance live only as long as the indexer handle that owns them, so
// cfg.Path is not consulted.
func New(cfg Config) (Store, error) {
	return NewMemory(), nil
}
