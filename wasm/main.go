//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("ChunkposNewIndexer", js.FuncOf(newIndexer))
	js.Global().Set("ChunkposIndex", js.FuncOf(index))
	js.Global().Set("ChunkposIndexBatch", js.FuncOf(indexBatch))
	js.Global().Set("ChunkposLocate", js.FuncOf(locate))
	js.Global().Set("ChunkposCloseIndexer", js.FuncOf(closeIndexer))

	// Keep WASM running
	<-make(chan struct{})
}
