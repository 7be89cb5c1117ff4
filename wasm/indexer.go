//go:build wasm

package main

import (
	"encoding/json"
	"sync"
	"syscall/js"

	"github.com/praetorian-inc/chunkpos/pkg/config"
	"github.com/praetorian-inc/chunkpos/pkg/indexer"
)

var (
	indexers   = make(map[int]*indexer.Core)
	indexersMu sync.RWMutex
	nextID     int
)

// newIndexer creates an indexer from an optional YAML (or JSON) config.
// JS: ChunkposNewIndexer(configYAML?) -> {handle} or {error}
func newIndexer(this js.Value, args []js.Value) interface{} {
	cfg := config.Default()
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() != "" {
		parsed, err := config.Parse([]byte(args[0].String()))
		if err != nil {
			return map[string]interface{}{"error": "invalid config: " + err.Error()}
		}
		cfg = parsed
	}

	core, err := indexer.NewCore(indexer.Config{
		Splitter: cfg.SplitterConfig(),
		Start:    cfg.Start,
	}, nil, indexer.NoopLogger{})
	if err != nil {
		return map[string]interface{}{"error": "failed to create indexer: " + err.Error()}
	}

	indexersMu.Lock()
	id := nextID
	nextID++
	indexers[id] = core
	indexersMu.Unlock()

	return map[string]interface{}{"handle": id}
}

func lookup(handle int) (*indexer.Core, bool) {
	indexersMu.RLock()
	defer indexersMu.RUnlock()
	core, ok := indexers[handle]
	return core, ok
}

// index splits a single content string.
// JS: ChunkposIndex(handle, content, source?) -> JSON result or {error}
func index(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and content arguments required"}
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid indexer handle"}
	}

	source := ""
	if len(args) > 2 {
		source = args[2].String()
	}

	result, err := core.Index([]byte(args[1].String()), source)
	if err != nil {
		return map[string]interface{}{"error": "index failed: " + err.Error()}
	}
	return marshal(result)
}

// indexBatch splits multiple content items.
// JS: ChunkposIndexBatch(handle, itemsJSON) -> JSON results or {error}
func indexBatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and itemsJSON arguments required"}
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid indexer handle"}
	}

	var items []indexer.ContentItem
	if err := json.Unmarshal([]byte(args[1].String()), &items); err != nil {
		return map[string]interface{}{"error": "failed to parse items JSON: " + err.Error()}
	}

	batch, err := core.IndexBatch(items)
	if err != nil {
		return map[string]interface{}{"error": "batch index failed: " + err.Error()}
	}
	return marshal(batch)
}

// locate maps a byte offset in content to a row/column position.
// JS: ChunkposLocate(handle, content, offset) -> JSON position or {error}
func locate(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return map[string]interface{}{"error": "handle, content and offset arguments required"}
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid indexer handle"}
	}

	pos, err := core.Locate([]byte(args[1].String()), int64(args[2].Int()))
	if err != nil {
		return map[string]interface{}{"error": "locate failed: " + err.Error()}
	}
	return marshal(pos)
}

// closeIndexer releases an indexer.
// JS: ChunkposCloseIndexer(handle)
func closeIndexer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()

	indexersMu.Lock()
	core, ok := indexers[handle]
	if ok {
		delete(indexers, handle)
	}
	indexersMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid indexer handle"}
	}

	core.Close()
	return nil
}

func marshal(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal results: " + err.Error()}
	}
	return string(data)
}
