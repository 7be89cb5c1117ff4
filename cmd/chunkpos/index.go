package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/praetorian-inc/chunkpos/pkg/config"
	"github.com/praetorian-inc/chunkpos/pkg/datastore"
	"github.com/praetorian-inc/chunkpos/pkg/enum"
	"github.com/praetorian-inc/chunkpos/pkg/indexer"
	"github.com/praetorian-inc/chunkpos/pkg/store"
	"github.com/praetorian-inc/chunkpos/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	indexConfigPath    string
	indexOutputPath    string
	indexOutputFormat  string
	indexGit           bool
	indexMaxChunkSize  int
	indexMode          string
	indexIncremental   bool
	indexMaxFileSize   int64
	indexIncludeHidden bool
	indexExtract       string
	indexDatastore     string
	indexStoreSources  bool
)

var indexCmd = &cobra.Command{
	Use:   "index <target>",
	Short: "Index a target into chunks",
	Long: `Split every file of a file, directory, or git repository into chunks and
store their positions. With --git and a --datastore, target may also be a
remote repository URL, which is cloned into the datastore first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexConfigPath, "config", "", "Path to YAML config file")
	indexCmd.Flags().StringVar(&indexOutputPath, "output", "chunkpos.db", "Output database path")
	indexCmd.Flags().StringVar(&indexOutputFormat, "format", "human", "Output format: human, json, yaml")
	indexCmd.Flags().BoolVar(&indexGit, "git", false, "Treat target as git repository (enumerate git history)")
	indexCmd.Flags().IntVar(&indexMaxChunkSize, "max-chunk-size", 64*1024, "Maximum chunk size in bytes (0 for one chunk per source)")
	indexCmd.Flags().StringVar(&indexMode, "mode", "lines", "Split mode: lines, bytes")
	indexCmd.Flags().BoolVar(&indexIncremental, "incremental", false, "Skip already-indexed sources")
	indexCmd.Flags().Int64Var(&indexMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to index (bytes)")
	indexCmd.Flags().BoolVar(&indexIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	indexCmd.Flags().StringVar(&indexExtract, "extract", "", "Extract text from documents: docx,xlsx,pdf or all")
	indexCmd.Flags().StringVar(&indexDatastore, "datastore", "", "Datastore directory (overrides --output; required for remote git URLs)")
	indexCmd.Flags().BoolVar(&indexStoreSources, "store-sources", false, "Keep indexed content in the datastore")
}

// indexSummary is the machine-readable result of an index run.
type indexSummary struct {
	Output  string                 `json:"output" yaml:"output"`
	Sources int                    `json:"sources" yaml:"sources"`
	Chunks  int                    `json:"chunks" yaml:"chunks"`
	Skipped int                    `json:"skipped" yaml:"skipped"`
	Results []*indexer.IndexResult `json:"results" yaml:"results"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	target := args[0]
	remote := indexGit && datastore.IsRemote(target)

	if remote && indexDatastore == "" {
		return fmt.Errorf("indexing a remote repository requires --datastore")
	}
	if indexStoreSources && indexDatastore == "" {
		return fmt.Errorf("--store-sources requires --datastore")
	}

	// Validate target exists
	if !remote {
		if _, err := os.Stat(target); err != nil {
			return fmt.Errorf("target does not exist: %s", target)
		}
	}

	cfg, err := loadIndexConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Open the datastore directory or a plain database file
	var s store.Store
	var sources *datastore.SourceStore
	output := indexOutputPath
	if indexDatastore != "" {
		ds, err := datastore.Open(indexDatastore, datastore.Options{StoreSources: indexStoreSources})
		if err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
		defer ds.Close()
		s = ds.Store
		sources = ds.Sources
		output = indexDatastore

		if remote {
			target, err = ds.CloneCache.GetOrClone(ctx, target)
			if err != nil {
				return err
			}
		}
	} else {
		s, err = store.New(store.Config{
			Path: indexOutputPath,
		})
		if err != nil {
			return fmt.Errorf("creating store: %w", err)
		}
		defer s.Close()
	}

	core, err := indexer.NewCore(indexer.Config{
		Splitter:    cfg.SplitterConfig(),
		Start:       cfg.Start,
		Incremental: indexIncremental,
	}, s, debugLogger())
	if err != nil {
		return fmt.Errorf("creating indexer: %w", err)
	}
	defer core.Close()

	enumerator := createEnumerator(target, indexGit, cfg.Enumerate)

	// Callbacks run concurrently for filesystem targets
	var mu sync.Mutex
	summary := &indexSummary{Output: output}

	err = enumerator.Enumerate(ctx, func(content []byte, _ types.ChunkID, prov types.Provenance) error {
		result, err := core.IndexSource(content, prov)
		if err != nil {
			return err
		}
		if sources != nil {
			if _, err := sources.Put(content); err != nil {
				return fmt.Errorf("storing source content: %w", err)
			}
		}

		mu.Lock()
		defer mu.Unlock()
		if result.Skipped {
			summary.Skipped++
			return nil
		}
		summary.Sources++
		summary.Chunks += len(result.Chunks)
		summary.Results = append(summary.Results, result)
		return nil
	})
	if err != nil {
		return fmt.Errorf("indexing: %w", err)
	}

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Source < summary.Results[j].Source
	})

	// Status goes to stderr for json/yaml so stdout stays machine readable
	status := cmd.OutOrStdout()
	if indexOutputFormat != "human" {
		status = cmd.ErrOrStderr()
	}
	if !quiet {
		printIndexStatus(status, summary)
	}

	switch indexOutputFormat {
	case "human":
		return nil
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	case "yaml":
		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		defer encoder.Close()
		return encoder.Encode(summary)
	default:
		return fmt.Errorf("unknown output format: %s", indexOutputFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// loadIndexConfig reads --config and applies explicitly set flags on top.
func loadIndexConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(indexConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if indexConfigPath == "" || flags.Changed("max-chunk-size") {
		cfg.Splitter.MaxChunkSize = indexMaxChunkSize
	}
	if indexConfigPath == "" || flags.Changed("mode") {
		cfg.Splitter.Mode = indexMode
	}
	if indexConfigPath == "" || flags.Changed("max-file-size") {
		cfg.Enumerate.MaxFileSize = indexMaxFileSize
	}
	if indexConfigPath == "" || flags.Changed("include-hidden") {
		cfg.Enumerate.IncludeHidden = indexIncludeHidden
	}
	if indexConfigPath == "" || flags.Changed("extract") {
		cfg.Enumerate.Extract = indexExtract
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func createEnumerator(target string, useGit bool, cfg config.EnumerateConfig) enum.Enumerator {
	enumConfig := enum.Config{
		Root:           target,
		IncludeHidden:  cfg.IncludeHidden,
		MaxFileSize:    cfg.MaxFileSize,
		FollowSymlinks: cfg.FollowSymlinks,
		Extract:        cfg.Extract,
	}

	if useGit {
		return enum.NewGitEnumerator(enumConfig)
	}

	return enum.NewFilesystemEnumerator(enumConfig)
}

func printIndexStatus(w io.Writer, summary *indexSummary) {
	if indexIncremental {
		fmt.Fprintf(w, "Index complete: %d sources, %d chunks (%d sources skipped)\n", summary.Sources, summary.Chunks, summary.Skipped)
	} else {
		fmt.Fprintf(w, "Index complete: %d sources, %d chunks\n", summary.Sources, summary.Chunks)
	}
	fmt.Fprintf(w, "Results stored in: %s\n", summary.Output)
}
