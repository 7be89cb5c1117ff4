package types

import (
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ChunkID is a Git-style SHA-1 content hash (20 bytes).
// It identifies both whole sources and the chunks cut from them.
type ChunkID [20]byte

// ComputeChunkID computes Git-style blob ID: SHA-1("blob {len}\0{content}").
func ComputeChunkID(content []byte) ChunkID {
	header := fmt.Sprintf("blob %d\x00", len(content))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(content)

	var id ChunkID
	copy(id[:], h.Sum(nil))
	return id
}

// Hex returns 40-character hex string.
func (id ChunkID) Hex() string {
	return hex.EncodeToString(id[:])
}

// String implements Stringer (returns Hex()).
func (id ChunkID) String() string {
	return id.Hex()
}

// Short returns the first 8 hex characters, for display.
func (id ChunkID) Short() string {
	return id.Hex()[:8]
}

// ParseChunkID parses 40-char hex string to ChunkID.
func ParseChunkID(hexStr string) (ChunkID, error) {
	if len(hexStr) != 40 {
		return ChunkID{}, fmt.Errorf("invalid chunk ID length: expected 40, got %d", len(hexStr))
	}

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return ChunkID{}, fmt.Errorf("invalid hex string: %w", err)
	}

	var id ChunkID
	copy(id[:], decoded)
	return id, nil
}

// MarshalJSON implements json.Marshaler.
func (id ChunkID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ChunkID) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}

	parsed, err := ParseChunkID(hexStr)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (id ChunkID) MarshalYAML() (interface{}, error) {
	return id.Hex(), nil
}

// Value implements driver.Valuer for SQL serialization.
func (id ChunkID) Value() (driver.Value, error) {
	return id.Hex(), nil
}

// Scan implements sql.Scanner for SQL deserialization.
func (id *ChunkID) Scan(value interface{}) error {
	if value == nil {
		return fmt.Errorf("cannot scan nil into ChunkID")
	}

	var hexStr string
	switch v := value.(type) {
	case string:
		hexStr = v
	case []byte:
		hexStr = string(v)
	default:
		return fmt.Errorf("cannot scan type %T into ChunkID", value)
	}

	parsed, err := ParseChunkID(hexStr)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}
