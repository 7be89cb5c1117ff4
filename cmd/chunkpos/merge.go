package main

import (
	"fmt"

	"github.com/praetorian-inc/chunkpos/pkg/store"
	"github.com/spf13/cobra"
)

var (
	mergeOutput string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <source1.db> <source2.db> [source3.db...]",
	Short: "Merge multiple chunk index databases",
	Long: `Merge multiple chunk index databases into a single output database.

This is useful for combining indexes built on different machines or
from different targets.

Deduplication is automatic - sources, chunks and provenance that
appear in several databases are only stored once.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "merged.db", "Output database path")
}

func runMerge(cmd *cobra.Command, args []string) error {
	stats, err := store.Merge(store.MergeConfig{
		SourcePaths: args,
		DestPath:    mergeOutput,
	})
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merge complete:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Databases processed: %d\n", stats.DatabasesProcessed)
	fmt.Fprintf(cmd.OutOrStdout(), "  Sources merged: %d\n", stats.SourcesMerged)
	fmt.Fprintf(cmd.OutOrStdout(), "  Chunks merged: %d\n", stats.ChunksMerged)
	fmt.Fprintf(cmd.OutOrStdout(), "  Provenance merged: %d\n", stats.ProvenanceMerged)
	fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", mergeOutput)

	return nil
}
