package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/chunkpos/pkg/indexer"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"`    // "index" | "index_batch" | "locate" | "close"
	Payload json.RawMessage `json:"payload"`
}

// IndexPayload is the payload for "index" requests
type IndexPayload struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// IndexBatchPayload is the payload for "index_batch" requests
type IndexBatchPayload struct {
	Items []indexer.ContentItem `json:"items"`
}

// LocatePayload is the payload for "locate" requests
type LocatePayload struct {
	Content string `json:"content"`
	Offset  int64  `json:"offset"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"`              // "ready" | "index" | "index_batch" | "locate" | "decode" | "unknown"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
}

// LocateData is the data field for "locate" responses
type LocateData struct {
	Offset   int64          `json:"offset"`
	Position types.Position `json:"position"`
}
