// Package config loads chunkpos settings from YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/praetorian-inc/chunkpos/pkg/splitter"
	"github.com/praetorian-inc/chunkpos/pkg/types"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Config is the full set of tunables.
type Config struct {
	Splitter  SplitterConfig  `yaml:"splitter"`
	Enumerate EnumerateConfig `yaml:"enumerate"`
	Start     types.Position  `yaml:"start"`
}

// SplitterConfig mirrors splitter.Config in YAML form.
type SplitterConfig struct {
	MaxChunkSize int    `yaml:"max_chunk_size"`
	Mode         string `yaml:"mode"`
}

// EnumerateConfig controls source discovery.
type EnumerateConfig struct {
	IncludeHidden  bool   `yaml:"include_hidden"`
	MaxFileSize    int64  `yaml:"max_file_size"`
	FollowSymlinks bool   `yaml:"follow_symlinks"`
	Extract        string `yaml:"extract"` // comma-separated: docx,xlsx,pdf or 'all'
}

// Default returns the embedded default configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// Parse overlays YAML data on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a YAML config file. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Splitter.MaxChunkSize < 0 {
		return fmt.Errorf("splitter.max_chunk_size must not be negative, got %d", c.Splitter.MaxChunkSize)
	}
	if _, err := splitter.ParseMode(c.Splitter.Mode); err != nil {
		return fmt.Errorf("splitter.mode: %w", err)
	}
	if c.Enumerate.MaxFileSize < 0 {
		return fmt.Errorf("enumerate.max_file_size must not be negative, got %d", c.Enumerate.MaxFileSize)
	}
	if c.Start.Row < 0 || c.Start.Column < 0 {
		return fmt.Errorf("start position must not be negative, got %s", c.Start)
	}
	for _, ext := range strings.Split(c.Enumerate.Extract, ",") {
		switch strings.TrimSpace(strings.ToLower(ext)) {
		case "", "all", "docx", "xlsx", "pdf":
		default:
			return fmt.Errorf("enumerate.extract: unsupported type %q", ext)
		}
	}
	return nil
}

// SplitterConfig converts the YAML section to a splitter.Config.
// Call Validate first; an invalid mode falls back to lines.
func (c Config) SplitterConfig() splitter.Config {
	mode, err := splitter.ParseMode(c.Splitter.Mode)
	if err != nil {
		mode = splitter.ModeLines
	}
	return splitter.Config{
		MaxChunkSize: c.Splitter.MaxChunkSize,
		Mode:         mode,
	}
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
