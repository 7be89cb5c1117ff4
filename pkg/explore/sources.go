package explore

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// sortField defines which column to sort by.
type sortField int

const (
	sortByPath sortField = iota
	sortBySize
	sortByChunks
	sortByLines
	sortFieldCount // sentinel
)

var sortFieldNames = [sortFieldCount]string{
	"Path", "Size", "Chunks", "Lines",
}

// sourcesPane is the top-right sources table.
type sourcesPane struct {
	rows    []*sourceRow // filtered rows
	allRows []*sourceRow
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
	sortBy  sortField
}

func newSourcesPane(rows []*sourceRow) sourcesPane {
	sp := sourcesPane{
		allRows: rows,
		rows:    append([]*sourceRow(nil), rows...),
	}
	sp.sort()
	return sp
}

func (sp *sourcesPane) setFilteredRows(rows []*sourceRow) {
	sp.rows = rows
	sp.sort()
	if sp.cursor >= len(sp.rows) {
		sp.cursor = max(0, len(sp.rows)-1)
	}
	sp.ensureVisible()
}

func (sp sourcesPane) selectedSource() *sourceRow {
	if sp.cursor < 0 || sp.cursor >= len(sp.rows) {
		return nil
	}
	return sp.rows[sp.cursor]
}

func (sp sourcesPane) Update(msg tea.Msg) (sourcesPane, tea.Cmd) {
	if !sp.focused {
		return sp, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return sp, nil
	}

	switch {
	case keyMatches(keyMsg, defaultKeys.Up):
		if sp.cursor > 0 {
			sp.cursor--
		}
	case keyMatches(keyMsg, defaultKeys.Down):
		if sp.cursor < len(sp.rows)-1 {
			sp.cursor++
		}
	case keyMatches(keyMsg, defaultKeys.Home):
		sp.cursor = 0
	case keyMatches(keyMsg, defaultKeys.End):
		sp.cursor = max(0, len(sp.rows)-1)
	case keyMatches(keyMsg, defaultKeys.PageDown):
		sp.cursor = max(0, min(sp.cursor+sp.visibleRows(), len(sp.rows)-1))
	case keyMatches(keyMsg, defaultKeys.PageUp):
		sp.cursor = max(sp.cursor-sp.visibleRows(), 0)
	case keyMatches(keyMsg, defaultKeys.SortNext):
		selected := sp.selectedSource()
		sp.sortBy = (sp.sortBy + 1) % sortFieldCount
		sp.sort()
		sp.moveTo(selected)
	}
	sp.ensureVisible()

	return sp, nil
}

// moveTo puts the cursor back on row after a reorder.
func (sp *sourcesPane) moveTo(row *sourceRow) {
	for i, r := range sp.rows {
		if r == row {
			sp.cursor = i
			return
		}
	}
}

// sort orders rows by the current field. Path sorts ascending, the numeric
// columns descending; ties fall back to path.
func (sp *sourcesPane) sort() {
	var key func(*sourceRow) int64
	switch sp.sortBy {
	case sortBySize:
		key = func(r *sourceRow) int64 { return r.Size }
	case sortByChunks:
		key = func(r *sourceRow) int64 { return int64(len(r.Chunks)) }
	case sortByLines:
		key = func(r *sourceRow) int64 { return int64(r.Lines) }
	}

	sort.SliceStable(sp.rows, func(i, j int) bool {
		a, b := sp.rows[i], sp.rows[j]
		if key != nil && key(a) != key(b) {
			return key(a) > key(b)
		}
		return a.Path < b.Path
	})
}

func (sp sourcesPane) View() string {
	if sp.width <= 0 || sp.height <= 0 {
		return ""
	}

	contentWidth := sp.width - 4
	const (
		colKind   = 8
		colSize   = 10
		colChunks = 7
		colLines  = 7
		colEnd    = 10
	)
	colPath := max(10, contentWidth-colKind-colSize-colChunks-colLines-colEnd-7) // separators

	lines := make([]string, 0, sp.visibleRows()+2)

	header := fmt.Sprintf(" %-*s %-*s %*s %*s %*s %*s",
		colPath, "Path",
		colKind, "Kind",
		colSize, "Size",
		colChunks, "Chunks",
		colLines, "Lines",
		colEnd, "End",
	)
	lines = append(lines, headerRowStyle.Width(contentWidth).Render(truncateString(header, contentWidth)))
	lines = append(lines, strings.Repeat("─", contentWidth))

	visibleEnd := min(sp.offset+sp.visibleRows(), len(sp.rows))
	for i := sp.offset; i < visibleEnd; i++ {
		row := sp.rows[i]

		kind := fmt.Sprintf("%-*s", colKind, truncateString(strings.Join(row.Kinds, ","), colKind))

		line := fmt.Sprintf(" %-*s %s %*s %*d %*d %*s",
			colPath, truncateString(row.Path, colPath),
			renderKind(kind),
			colSize, formatSize(row.Size),
			colChunks, len(row.Chunks),
			colLines, row.Lines,
			colEnd, row.End.String(),
		)

		if i == sp.cursor && sp.focused {
			line = selectedRowStyle.Width(contentWidth).Render(stripAnsi(line))
		}
		lines = append(lines, padRight(line, contentWidth))
	}

	title := fmt.Sprintf(" Sources (%d/%d) [sort: %s] ", len(sp.rows), len(sp.allRows), sortFieldNames[sp.sortBy])
	return renderPane(title, lines, sp.width, sp.height, sp.visibleRows()+2, sp.focused)
}

func (sp sourcesPane) visibleRows() int {
	return max(1, sp.height-6) // title + border + header + separator
}

func (sp *sourcesPane) ensureVisible() {
	if sp.cursor < sp.offset {
		sp.offset = sp.cursor
	}
	if sp.cursor >= sp.offset+sp.visibleRows() {
		sp.offset = sp.cursor - sp.visibleRows() + 1
	}
}

func (sp *sourcesPane) setSize(w, h int) {
	sp.width = w
	sp.height = h
}
