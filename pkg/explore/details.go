package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// maxBodyLines caps how much of a chunk body the details pane prints.
const maxBodyLines = 12

// detailsPane shows the chunks of the selected source.
type detailsPane struct {
	source      *sourceRow
	content     []byte // stored source bytes, nil when unavailable
	chunkCursor int
	width       int
	height      int
	offset      int // scroll offset for content
	focused     bool
}

func newDetailsPane() detailsPane {
	return detailsPane{}
}

func (dp *detailsPane) setSource(s *sourceRow, content []byte) {
	dp.source = s
	dp.content = content
	dp.chunkCursor = 0
	dp.offset = 0
}

func (dp detailsPane) selectedChunk() *types.ChunkRecord {
	if dp.source == nil || dp.chunkCursor < 0 || dp.chunkCursor >= len(dp.source.Chunks) {
		return nil
	}
	return dp.source.Chunks[dp.chunkCursor]
}

func (dp detailsPane) Update(msg tea.Msg) (detailsPane, tea.Cmd) {
	if !dp.focused {
		return dp, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return dp, nil
	}

	switch {
	case keyMatches(keyMsg, defaultKeys.Up):
		if dp.offset > 0 {
			dp.offset--
		}
	case keyMatches(keyMsg, defaultKeys.Down):
		dp.offset++
	case keyMatches(keyMsg, defaultKeys.Left):
		if dp.chunkCursor > 0 {
			dp.chunkCursor--
			dp.offset = 0
		}
	case keyMatches(keyMsg, defaultKeys.Right):
		if dp.source != nil && dp.chunkCursor < len(dp.source.Chunks)-1 {
			dp.chunkCursor++
			dp.offset = 0
		}
	case keyMatches(keyMsg, defaultKeys.Home):
		dp.offset = 0
	case keyMatches(keyMsg, defaultKeys.PageDown):
		dp.offset += dp.visibleRows()
	case keyMatches(keyMsg, defaultKeys.PageUp):
		dp.offset = max(0, dp.offset-dp.visibleRows())
	}

	return dp, nil
}

func (dp detailsPane) View() string {
	if dp.width <= 0 || dp.height <= 0 {
		return ""
	}

	contentWidth := dp.width - 4
	lines := dp.lines(contentWidth)

	offset := min(dp.offset, max(0, len(lines)-1))
	lines = lines[offset:]
	if len(lines) > dp.visibleRows() {
		lines = lines[:dp.visibleRows()]
	}
	for i, line := range lines {
		lines[i] = padRight(truncateString(line, contentWidth), contentWidth)
	}

	return renderPane(" Details ", lines, dp.width, dp.height, dp.visibleRows(), dp.focused)
}

func (dp detailsPane) lines(contentWidth int) []string {
	if dp.source == nil {
		return []string{"  No source selected"}
	}
	s := dp.source

	lines := []string{
		field("Source:", s.ID.Hex()),
		field("Size:", fmt.Sprintf("%d bytes, %d lines, end %s", s.Size, s.Lines, s.End)),
	}
	lines = append(lines, renderProvenance(s.Provenance)...)
	lines = append(lines, "")

	c := dp.selectedChunk()
	if c == nil {
		return append(lines, "  No chunks")
	}

	lines = append(lines,
		"  "+headerRowStyle.Render(fmt.Sprintf("Chunk %d/%d (h/l to navigate)", dp.chunkCursor+1, len(s.Chunks))),
		"  "+strings.Repeat("─", min(40, max(0, contentWidth-4))),
		field("Bytes:", fmt.Sprintf("%d-%d (%d)", c.Offset.Start, c.Offset.End, c.Offset.Len())),
		field("Forward:", c.Forward.String()),
		field("Backward:", c.Backward.String()),
		field("Lines:", fmt.Sprintf("%d", c.LineCount)),
		fmt.Sprintf("  %s %s", fieldLabelStyle.Render("Next:"), renderContinues(c.EndsWithNewline)),
	)

	if body := chunkBody(dp.content, c.Offset); body != nil {
		lines = append(lines, "", "  "+fieldLabelStyle.Render("Content:"))
		for _, l := range bodyLines(body, c.Forward.Start.Row, maxBodyLines) {
			lines = append(lines, "    "+chunkBodyStyle.Render(truncateString(l, contentWidth-6)))
		}
	}

	return lines
}

func field(label, value string) string {
	return fmt.Sprintf("  %s %s", fieldLabelStyle.Render(label), fieldValueStyle.Render(value))
}

func renderProvenance(provs []types.Provenance) []string {
	var lines []string
	for _, prov := range provs {
		switch p := prov.(type) {
		case types.FileProvenance:
			lines = append(lines, field("File:", p.FilePath))
		case types.GitProvenance:
			lines = append(lines, field("Repo:", p.RepoPath), field("Path:", p.BlobPath))
			if p.Commit != nil {
				lines = append(lines, field("Commit:", p.Commit.CommitID))
				if p.Commit.AuthorName != "" {
					lines = append(lines, field("Author:", p.Commit.AuthorName))
				}
			}
		case types.ArchiveProvenance:
			lines = append(lines, field("Archive:", p.ArchivePath), field("Member:", p.MemberPath))
		default:
			lines = append(lines, field(prov.Kind()+":", prov.Path()))
		}
	}
	return lines
}

// chunkBody slices a chunk out of its source, or returns nil when the
// content is unavailable or does not cover the span.
func chunkBody(content []byte, span types.OffsetSpan) []byte {
	if content == nil || span.Start < 0 || span.End > int64(len(content)) || span.Start > span.End {
		return nil
	}
	return content[span.Start:span.End]
}

// bodyLines numbers the lines of a chunk body starting at row, keeping at
// most limit lines.
func bodyLines(body []byte, row, limit int) []string {
	text := strings.TrimSuffix(string(body), "\n")
	parts := strings.Split(text, "\n")

	var out []string
	for i, p := range parts {
		if i == limit {
			out = append(out, fmt.Sprintf("... %d more", len(parts)-limit))
			break
		}
		out = append(out, fmt.Sprintf("%5d  %s", row+i+1, strings.TrimRight(p, "\r")))
	}
	return out
}

func (dp detailsPane) visibleRows() int {
	return max(1, dp.height-4)
}

func (dp *detailsPane) setSize(w, h int) {
	dp.width = w
	dp.height = h
}
