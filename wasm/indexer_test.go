//go:build wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"testing"

	"github.com/praetorian-inc/chunkpos/pkg/indexer"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

func createIndexer(t *testing.T, configYAML string) int {
	t.Helper()
	result := newIndexer(js.Value{}, []js.Value{js.ValueOf(configYAML)})
	resultMap, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map result, got %T", result)
	}
	if errMsg, hasError := resultMap["error"]; hasError {
		t.Fatalf("Failed to create indexer: %v", errMsg)
	}
	handle, ok := resultMap["handle"].(int)
	if !ok {
		t.Fatalf("Expected int handle, got %T", resultMap["handle"])
	}
	return handle
}

// TestIndexerCreation tests creating an indexer with the default config
func TestIndexerCreation(t *testing.T) {
	handle := createIndexer(t, "")
	if res := closeIndexer(js.Value{}, []js.Value{js.ValueOf(handle)}); res != nil {
		t.Fatalf("Expected nil from close, got %v", res)
	}
}

// TestIndexerInvalidConfig tests that a bad mode is rejected
func TestIndexerInvalidConfig(t *testing.T) {
	result := newIndexer(js.Value{}, []js.Value{js.ValueOf("splitter:\n  mode: words\n")})
	resultMap, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map result, got %T", result)
	}
	if _, hasError := resultMap["error"]; !hasError {
		t.Fatal("Expected error for invalid mode")
	}
}

// TestIndexContent tests splitting a single string
func TestIndexContent(t *testing.T) {
	handle := createIndexer(t, "splitter:\n  max_chunk_size: 3\n")
	defer closeIndexer(js.Value{}, []js.Value{js.ValueOf(handle)})

	resultStr := index(js.Value{}, []js.Value{
		js.ValueOf(handle),
		js.ValueOf("ab\ncd"),
		js.ValueOf("test-source"),
	})

	jsonStr, ok := resultStr.(string)
	if !ok {
		t.Fatalf("Expected string result, got %T: %v", resultStr, resultStr)
	}

	var result indexer.IndexResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("Failed to parse result: %v", err)
	}

	if result.Source != "test-source" {
		t.Errorf("Expected source 'test-source', got %q", result.Source)
	}
	if len(result.Chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(result.Chunks))
	}
	if result.End != (types.Position{Row: 1, Column: 0}) {
		t.Errorf("Expected end 1:0, got %s", result.End)
	}
}

// TestIndexBatch tests batch indexing multiple content items
func TestIndexBatch(t *testing.T) {
	handle := createIndexer(t, "")
	defer closeIndexer(js.Value{}, []js.Value{js.ValueOf(handle)})

	items := []indexer.ContentItem{
		{Source: "script:inline:1", Content: "one\ntwo\n"},
		{Source: "script:inline:2", Content: "three"},
	}
	itemsJSON, _ := json.Marshal(items)

	resultStr := indexBatch(js.Value{}, []js.Value{
		js.ValueOf(handle),
		js.ValueOf(string(itemsJSON)),
	})

	jsonStr, ok := resultStr.(string)
	if !ok {
		t.Fatalf("Expected string result, got %T: %v", resultStr, resultStr)
	}

	var batch indexer.BatchIndexResult
	if err := json.Unmarshal([]byte(jsonStr), &batch); err != nil {
		t.Fatalf("Failed to parse result: %v", err)
	}

	if len(batch.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(batch.Results))
	}
	if batch.Total != 2 {
		t.Errorf("Expected 2 chunks total, got %d", batch.Total)
	}
}

// TestLocate tests mapping an offset to a position
func TestLocate(t *testing.T) {
	handle := createIndexer(t, "")
	defer closeIndexer(js.Value{}, []js.Value{js.ValueOf(handle)})

	resultStr := locate(js.Value{}, []js.Value{
		js.ValueOf(handle),
		js.ValueOf("ab\ncd"),
		js.ValueOf(4),
	})

	jsonStr, ok := resultStr.(string)
	if !ok {
		t.Fatalf("Expected string result, got %T: %v", resultStr, resultStr)
	}

	var pos types.Position
	if err := json.Unmarshal([]byte(jsonStr), &pos); err != nil {
		t.Fatalf("Failed to parse result: %v", err)
	}
	if pos != (types.Position{Row: 1, Column: 1}) {
		t.Errorf("Expected 1:1, got %s", pos)
	}
}

// TestInvalidHandle tests operations on an unknown handle
func TestInvalidHandle(t *testing.T) {
	result := index(js.Value{}, []js.Value{js.ValueOf(9999), js.ValueOf("content")})
	resultMap, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map result, got %T", result)
	}
	if resultMap["error"] != "invalid indexer handle" {
		t.Errorf("Expected invalid handle error, got %v", resultMap["error"])
	}

	result = closeIndexer(js.Value{}, []js.Value{js.ValueOf(9999)})
	if _, ok := result.(map[string]interface{}); !ok {
		t.Fatalf("Expected error map from close, got %T", result)
	}
}
