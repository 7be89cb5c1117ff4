package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/chunkpos/pkg/splitter"
	"github.com/praetorian-inc/chunkpos/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 64*1024, cfg.Splitter.MaxChunkSize)
	assert.Equal(t, "lines", cfg.Splitter.Mode)
	assert.Equal(t, int64(10*1024*1024), cfg.Enumerate.MaxFileSize)
	assert.False(t, cfg.Enumerate.IncludeHidden)
	assert.Equal(t, types.Position{}, cfg.Start)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, splitter.DefaultConfig(), cfg.SplitterConfig())
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
splitter:
  mode: bytes
start:
  row: 3
  column: 7
`))
	require.NoError(t, err)

	assert.Equal(t, "bytes", cfg.Splitter.Mode)
	assert.Equal(t, 64*1024, cfg.Splitter.MaxChunkSize)
	assert.Equal(t, types.Position{Row: 3, Column: 7}, cfg.Start)
	assert.Equal(t, splitter.ModeBytes, cfg.SplitterConfig().Mode)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "splitter: [unclosed"},
		{"negative size", "splitter:\n  max_chunk_size: -1\n"},
		{"bad mode", "splitter:\n  mode: words\n"},
		{"negative start", "start:\n  row: -2\n"},
		{"bad extract", "enumerate:\n  extract: rar\n"},
		{"negative file size", "enumerate:\n  max_file_size: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "chunkpos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enumerate:\n  extract: docx,pdf\n"), 0o644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "docx,pdf", cfg.Enumerate.Extract)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Start = types.Position{Row: 1, Column: 2}

	data, err := cfg.Marshal()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}
