// Package indexer turns content into stored chunk records.
package indexer

import (
	"fmt"

	"github.com/praetorian-inc/chunkpos/pkg/splitter"
	"github.com/praetorian-inc/chunkpos/pkg/store"
	"github.com/praetorian-inc/chunkpos/pkg/stream"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// Config configures a Core.
type Config struct {
	Splitter splitter.Config
	// Start is the position of the first byte of every source.
	Start types.Position
	// Incremental skips sources the store already holds with the same
	// chunk layout.
	Incremental bool
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{Splitter: splitter.DefaultConfig()}
}

// Core wraps the splitter and store for indexing operations
type Core struct {
	config    Config
	store     store.Store
	ownsStore bool
	logger    DebugLogger
}

// NewCore creates a new Core. A nil store gets an in-memory store that
// Close releases; a caller-supplied store stays open.
func NewCore(config Config, s store.Store, logger DebugLogger) (*Core, error) {
	if logger == nil {
		logger = NoopLogger{}
	}

	if _, err := splitter.ParseMode(string(config.Splitter.Mode)); err != nil {
		return nil, err
	}
	if config.Splitter.Mode == "" {
		config.Splitter.Mode = splitter.ModeLines
	}

	owns := false
	if s == nil {
		logger.Log("Creating in-memory store...")
		var err error
		s, err = store.New(store.Config{Path: store.MemoryPath})
		if err != nil {
			logger.Log("store.New failed: %v", err)
			return nil, err
		}
		owns = true
	}

	logger.Log("NewCore complete (max chunk size %d, mode %s)", config.Splitter.MaxChunkSize, config.Splitter.Mode)
	return &Core{
		config:    config,
		store:     s,
		ownsStore: owns,
		logger:    logger,
	}, nil
}

// Store returns the store records are written to.
func (c *Core) Store() store.Store {
	return c.store
}

// Index indexes a single content item. A non-empty source name is recorded
// as named provenance.
func (c *Core) Index(content []byte, source string) (*IndexResult, error) {
	var prov types.Provenance
	if source != "" {
		prov = types.NamedProvenance{Name: source}
	}
	return c.IndexSource(content, prov)
}

// IndexSource indexes content seen at prov, which may be nil.
func (c *Core) IndexSource(content []byte, prov types.Provenance) (*IndexResult, error) {
	sourceID := types.ComputeChunkID(content)
	result := &IndexResult{
		SourceID: sourceID,
		Size:     int64(len(content)),
	}
	if prov != nil {
		result.Source = prov.Path()
	}

	doc := stream.Split(content, c.config.Splitter, c.config.Start)
	records := Records(doc, sourceID)
	result.End = doc.End()

	if c.config.Incremental {
		exists, err := c.store.SourceExists(sourceID)
		if err != nil {
			return nil, fmt.Errorf("checking source %s: %w", sourceID.Short(), err)
		}
		if exists {
			stored, err := c.store.GetChunks(sourceID)
			if err != nil {
				return nil, fmt.Errorf("loading chunks of %s: %w", sourceID.Short(), err)
			}
			if sameLayout(stored, records) {
				c.logger.Log("Skipping %s (%s): already indexed", result.Source, sourceID.Short())
				if err := c.addProvenance(sourceID, prov); err != nil {
					return nil, err
				}
				result.Chunks = stored
				result.Skipped = true
				return result, nil
			}
			c.logger.Log("Reindexing %s (%s): stored chunks use a different split", result.Source, sourceID.Short())
		}
	}

	result.Chunks = records

	if err := c.store.AddSource(sourceID, result.Size); err != nil {
		return nil, fmt.Errorf("storing source %s: %w", sourceID.Short(), err)
	}
	if err := c.addProvenance(sourceID, prov); err != nil {
		return nil, err
	}
	if err := c.store.ReplaceChunks(sourceID, records); err != nil {
		return nil, fmt.Errorf("storing chunks of %s: %w", sourceID.Short(), err)
	}

	c.logger.Log("Indexed %s (%s): %d bytes, %d chunks", result.Source, sourceID.Short(), result.Size, len(result.Chunks))
	return result, nil
}

func (c *Core) addProvenance(sourceID types.ChunkID, prov types.Provenance) error {
	if prov == nil {
		return nil
	}
	if err := c.store.AddProvenance(sourceID, prov); err != nil {
		return fmt.Errorf("storing provenance of %s: %w", sourceID.Short(), err)
	}
	return nil
}

// IndexBatch indexes multiple content items
func (c *Core) IndexBatch(items []ContentItem) (*BatchIndexResult, error) {
	var results []IndexResult
	total := 0

	for _, item := range items {
		result, err := c.Index([]byte(item.Content), item.Source)
		if err != nil {
			// Skip items that fail to index
			c.logger.Log("Index %s failed: %v", item.Source, err)
			continue
		}

		results = append(results, *result)
		total += len(result.Chunks)
	}

	return &BatchIndexResult{
		Results: results,
		Total:   total,
	}, nil
}

// Locate returns the file position of a byte offset within content, shifted
// by the configured start. The chunk size and split mode do not change the
// answer.
func (c *Core) Locate(content []byte, offset int64) (types.Position, error) {
	doc := stream.Split(content, c.config.Splitter, c.config.Start)
	return doc.Locate(offset)
}

// Close releases indexer resources
func (c *Core) Close() {
	if c.store != nil && c.ownsStore {
		c.store.Close()
	}
}
