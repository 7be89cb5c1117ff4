package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/praetorian-inc/chunkpos/pkg/explore"
	"github.com/spf13/cobra"
)

var (
	exploreDatastore string
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively browse an index",
	Long: `Launch an interactive TUI to browse indexed sources and their chunks.

Features:
  - Three-pane layout: filters, sources table, chunk details
  - Faceted filtering by provenance kind, extension and last-chunk ending
  - Forward and backward spans for every chunk
  - Vi-style navigation (hjkl, Ctrl-f/b, g/G)
  - Opens the source at the selected chunk in $PAGER`,
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().StringVar(&exploreDatastore, "datastore", "chunkpos.db", "Path to datastore directory or file")
}

func runExplore(cmd *cobra.Command, args []string) error {
	model, err := explore.New(exploreDatastore)
	if err != nil {
		return fmt.Errorf("loading datastore: %w", err)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explore TUI: %w", err)
	}

	return nil
}
