package main

import (
	"os"

	"github.com/praetorian-inc/chunkpos/pkg/indexer"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "chunkpos",
	Short: "chunkpos - row/column positions for chunked content",
	Long: `chunkpos splits files, directories and git history into chunks and records,
for every chunk, the row/column span it covers when read forward from the
start of its source and backward from the end.

Positions compose from chunk to chunk without rescanning earlier content.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exploreCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// debugLogger returns a stderr logger when --verbose is set.
func debugLogger() indexer.DebugLogger {
	if verbose && !quiet {
		return indexer.WriterLogger{W: os.Stderr}
	}
	return indexer.NoopLogger{}
}
