package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/praetorian-inc/chunkpos/pkg/config"
	"github.com/praetorian-inc/chunkpos/pkg/indexer"
	"github.com/praetorian-inc/chunkpos/pkg/types"
	"github.com/spf13/cobra"
)

var (
	locateConfigPath   string
	locateMaxChunkSize int
	locateMode         string
	locateFormat       string
)

var locateCmd = &cobra.Command{
	Use:   "locate <file> <offset>",
	Short: "Print the row/column of a byte offset",
	Long: `Split a file into chunks the same way index does and print the
position of a byte offset, counted from the configured start position.`,
	Args: cobra.ExactArgs(2),
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().StringVar(&locateConfigPath, "config", "", "Path to YAML config file")
	locateCmd.Flags().IntVar(&locateMaxChunkSize, "max-chunk-size", 64*1024, "Maximum chunk size in bytes (0 for one chunk)")
	locateCmd.Flags().StringVar(&locateMode, "mode", "lines", "Split mode: lines, bytes")
	locateCmd.Flags().StringVar(&locateFormat, "format", "human", "Output format: human, json")
}

// locateResult is the json output of locate.
type locateResult struct {
	File     string         `json:"file"`
	Offset   int64          `json:"offset"`
	Position types.Position `json:"position"`
}

func runLocate(cmd *cobra.Command, args []string) error {
	path := args[0]
	offset, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid offset %q: %w", args[1], err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	cfg, err := config.Load(locateConfigPath)
	if err != nil {
		return err
	}
	if locateConfigPath == "" || cmd.Flags().Changed("max-chunk-size") {
		cfg.Splitter.MaxChunkSize = locateMaxChunkSize
	}
	if locateConfigPath == "" || cmd.Flags().Changed("mode") {
		cfg.Splitter.Mode = locateMode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	core, err := indexer.NewCore(indexer.Config{
		Splitter: cfg.SplitterConfig(),
		Start:    cfg.Start,
	}, nil, debugLogger())
	if err != nil {
		return err
	}
	defer core.Close()

	pos, err := core.Locate(content, offset)
	if err != nil {
		return fmt.Errorf("locating %s: %w", path, err)
	}

	switch locateFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(locateResult{File: path, Offset: offset, Position: pos})
	case "human":
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", path, pos)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", locateFormat)
	}
}
