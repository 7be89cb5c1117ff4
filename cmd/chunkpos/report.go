package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/praetorian-inc/chunkpos/pkg/chunk"
	"github.com/praetorian-inc/chunkpos/pkg/datastore"
	"github.com/praetorian-inc/chunkpos/pkg/store"
	"github.com/praetorian-inc/chunkpos/pkg/types"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var (
	reportDatastore string
	reportFormat    string
	reportColor     string
	reportSnippets  bool
)

// styles holds color formatters for human output
type styles struct {
	sourceHeading *color.Color
	id            *color.Color
	path          *color.Color
	heading       *color.Color
	span          *color.Color
	metadata      *color.Color
	snippet       *color.Color
}

// newStyles creates color formatters for report output
// enabled=false respects --color=never and NO_COLOR env var
func newStyles(enabled bool) *styles {
	s := &styles{
		sourceHeading: color.New(color.Bold, color.FgHiWhite),
		id:            color.New(color.FgHiGreen),
		path:          color.New(color.Bold, color.FgHiBlue),
		heading:       color.New(color.Bold),
		span:          color.New(color.FgYellow),
		metadata:      color.New(color.FgHiBlue),
		snippet:       color.New(color.Faint),
	}

	if !enabled {
		s.sourceHeading.DisableColor()
		s.id.DisableColor()
		s.path.DisableColor()
		s.heading.DisableColor()
		s.span.DisableColor()
		s.metadata.DisableColor()
		s.snippet.DisableColor()
	}

	return s
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from an index",
	Long:  "Read sources and chunks from a datastore and output a report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "chunkpos.db", "Path to datastore directory or file")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, yaml")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	reportCmd.Flags().BoolVar(&reportSnippets, "snippets", false, "Show the first line of each chunk (needs --store-sources)")
}

// reportProvenance is the serialisable form of a types.Provenance.
type reportProvenance struct {
	Kind string `json:"kind" yaml:"kind"`
	Path string `json:"path" yaml:"path"`
}

// reportSource is one source with its chunks.
type reportSource struct {
	ID         types.ChunkID        `json:"id" yaml:"id"`
	Size       int64                `json:"size" yaml:"size"`
	Provenance []reportProvenance   `json:"provenance" yaml:"provenance"`
	Chunks     []*types.ChunkRecord `json:"chunks" yaml:"chunks"`
}

func runReport(cmd *cobra.Command, args []string) error {
	storePath := reportDatastore

	// Check if it's :memory: (invalid for report)
	if storePath == store.MemoryPath {
		return fmt.Errorf("cannot report from in-memory store")
	}

	if _, err := os.Stat(storePath); err != nil {
		return fmt.Errorf("datastore not found: %s", storePath)
	}
	// A datastore directory keeps its database inside
	storePath = datastore.ResolveDBPath(storePath)

	s, err := store.New(store.Config{
		Path: storePath,
	})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	sources, err := loadReport(s)
	if err != nil {
		return err
	}

	switch reportFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(sources)
	case "yaml":
		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		defer encoder.Close()
		return encoder.Encode(sources)
	case "human":
		var content *datastore.SourceStore
		if reportSnippets {
			content = datastore.SourcesFor(storePath)
			if content == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s has no stored sources, snippets disabled\n", reportDatastore)
			}
		}
		return outputReportHuman(cmd.OutOrStdout(), sources, storePath, colorEnabled(reportColor), content)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// loadReport joins every source with its provenance and chunks.
func loadReport(s store.Store) ([]*reportSource, error) {
	sources, err := s.GetSources()
	if err != nil {
		return nil, fmt.Errorf("retrieving sources: %w", err)
	}

	chunks, err := s.GetAllChunks()
	if err != nil {
		return nil, fmt.Errorf("retrieving chunks: %w", err)
	}
	chunksBySource := make(map[types.ChunkID][]*types.ChunkRecord)
	for _, c := range chunks {
		chunksBySource[c.SourceID] = append(chunksBySource[c.SourceID], c)
	}

	report := make([]*reportSource, 0, len(sources))
	for _, src := range sources {
		rs := &reportSource{
			ID:         src.ID,
			Size:       src.Size,
			Provenance: []reportProvenance{},
			Chunks:     chunksBySource[src.ID],
		}
		for _, p := range src.Provenance {
			rs.Provenance = append(rs.Provenance, reportProvenance{Kind: p.Kind(), Path: p.Path()})
		}
		report = append(report, rs)
	}
	return report, nil
}

// colorEnabled resolves the --color flag. "auto" enables color only on a
// terminal with NO_COLOR unset.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}

func outputReportHuman(out io.Writer, sources []*reportSource, datastorePath string, enabled bool, content *datastore.SourceStore) error {
	color.NoColor = !enabled
	s := newStyles(enabled)

	totalChunks := 0
	for _, src := range sources {
		totalChunks += len(src.Chunks)
	}

	fmt.Fprintf(out, "%s\n", s.heading.Sprint("=== chunkpos Report ==="))
	fmt.Fprintf(out, "Datastore: %s\n", datastorePath)
	fmt.Fprintf(out, "Total sources: %d\n", len(sources))
	fmt.Fprintf(out, "Total chunks: %d\n", totalChunks)

	if len(sources) == 0 {
		fmt.Fprintf(out, "\nNo sources.\n")
		return nil
	}

	for i, src := range sources {
		fmt.Fprintf(out, "\n%s (%s %s)\n",
			s.sourceHeading.Sprintf("Source %d/%d", i+1, len(sources)),
			s.heading.Sprint("id"),
			s.id.Sprint(src.ID.Short()))

		if len(src.Provenance) == 0 {
			fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Path:"), s.metadata.Sprint("(none)"))
		}
		for _, p := range src.Provenance {
			fmt.Fprintf(out, "%s %s %s\n",
				s.heading.Sprint("Path:"),
				s.path.Sprint(p.Path),
				s.metadata.Sprintf("[%s]", p.Kind))
		}

		fmt.Fprintf(out, "%s %d bytes, %d chunks\n", s.heading.Sprint("Size:"), src.Size, len(src.Chunks))

		var body []byte
		if content != nil {
			var err error
			if body, err = content.Get(src.ID); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		}

		for _, c := range src.Chunks {
			newline := ""
			if c.EndsWithNewline {
				newline = " " + s.metadata.Sprint("(continues)")
			}
			fmt.Fprintf(out, "  #%d bytes %d-%d forward %s backward %s lines %d%s\n",
				c.Index,
				c.Offset.Start, c.Offset.End,
				s.span.Sprint(c.Forward.String()),
				s.span.Sprint(c.Backward.String()),
				c.LineCount,
				newline)
			if body != nil {
				fmt.Fprintf(out, "     %s\n", s.snippet.Sprint(firstLine(body, c.Offset, snippetWidth)))
			}
		}
	}

	return nil
}

// snippetWidth is the longest chunk line shown by --snippets.
const snippetWidth = 72

// firstLine returns the first line of the chunk at span within body,
// without its newline and cut to width runes.
func firstLine(body []byte, span types.OffsetSpan, width int) string {
	if span.Start < 0 || span.End > int64(len(body)) || span.Start > span.End {
		return ""
	}
	line := strings.TrimRight(string(chunk.New(body[span.Start:span.End]).FirstLine()), "\r\n")
	if runes := []rune(line); len(runes) > width {
		return string(runes[:width]) + "..."
	}
	return line
}
