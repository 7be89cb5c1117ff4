package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// filterPane is the left-side facet tree.
type filterPane struct {
	facets   *facetState
	items    []filterItem
	expanded map[facetID]bool
	cursor   int
	offset   int
	width    int
	height   int
	focused  bool
}

// filterItem is one line of the flattened tree: a facet header when
// value is negative, otherwise one of the facet's values.
type filterItem struct {
	facet facetID
	label string
	value int
}

func (it filterItem) isHeader() bool {
	return it.value < 0
}

func newFilterPane(facets *facetState) filterPane {
	fp := filterPane{
		facets:   facets,
		expanded: make(map[facetID]bool),
	}
	for _, def := range facetDefs {
		fp.expanded[def.ID] = true
	}
	fp.rebuildItems()
	return fp
}

func (fp *filterPane) rebuildItems() {
	fp.items = nil
	for _, def := range facetDefs {
		values := fp.facets.Values[def.ID]
		if len(values) == 0 {
			continue
		}
		fp.items = append(fp.items, filterItem{facet: def.ID, label: def.Label, value: -1})
		if !fp.expanded[def.ID] {
			continue
		}
		for i, v := range values {
			fp.items = append(fp.items, filterItem{facet: def.ID, label: v.Value, value: i})
		}
	}
	if fp.cursor >= len(fp.items) {
		fp.cursor = max(0, len(fp.items)-1)
	}
}

func (fp filterPane) Update(msg tea.Msg) (filterPane, tea.Cmd) {
	if !fp.focused {
		return fp, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fp, nil
	}

	switch {
	case keyMatches(keyMsg, defaultKeys.Up):
		fp.cursor = max(0, fp.cursor-1)
	case keyMatches(keyMsg, defaultKeys.Down):
		fp.cursor = min(len(fp.items)-1, fp.cursor+1)
	case keyMatches(keyMsg, defaultKeys.Home):
		fp.cursor = 0
	case keyMatches(keyMsg, defaultKeys.End):
		fp.cursor = len(fp.items) - 1
	case keyMatches(keyMsg, defaultKeys.PageDown):
		fp.cursor = min(len(fp.items)-1, fp.cursor+fp.visibleRows())
	case keyMatches(keyMsg, defaultKeys.PageUp):
		fp.cursor = max(0, fp.cursor-fp.visibleRows())
	case keyMatches(keyMsg, defaultKeys.Left):
		fp.setExpanded(false)
	case keyMatches(keyMsg, defaultKeys.Right):
		fp.setExpanded(true)
	case keyMatches(keyMsg, defaultKeys.ToggleFilter):
		fp.toggleCurrent()
	case keyMatches(keyMsg, defaultKeys.ResetFilter):
		fp.facets.resetAll()
	}
	fp.cursor = max(0, fp.cursor)
	fp.ensureVisible()

	return fp, nil
}

// setExpanded collapses or expands the facet under the cursor and keeps
// the cursor on its header.
func (fp *filterPane) setExpanded(open bool) {
	if fp.cursor < 0 || fp.cursor >= len(fp.items) {
		return
	}
	id := fp.items[fp.cursor].facet
	fp.expanded[id] = open
	fp.rebuildItems()
	for i, it := range fp.items {
		if it.isHeader() && it.facet == id {
			fp.cursor = i
			break
		}
	}
}

func (fp *filterPane) toggleCurrent() {
	if fp.cursor < 0 || fp.cursor >= len(fp.items) {
		return
	}
	item := fp.items[fp.cursor]
	if item.isHeader() {
		fp.setExpanded(!fp.expanded[item.facet])
		return
	}
	values := fp.facets.Values[item.facet]
	if item.value < len(values) {
		values[item.value].Selected = !values[item.value].Selected
	}
}

func (fp filterPane) View() string {
	if fp.width <= 0 || fp.height <= 0 {
		return ""
	}

	innerWidth := fp.width - 2
	visibleEnd := min(fp.offset+fp.visibleRows(), len(fp.items))

	lines := make([]string, 0, fp.visibleRows())
	for i := fp.offset; i < visibleEnd; i++ {
		line := fp.renderItem(fp.items[i])
		if i == fp.cursor && fp.focused {
			line = selectedRowStyle.Width(innerWidth).Render(stripAnsi(line))
		}
		lines = append(lines, padRight(line, innerWidth))
	}

	return renderPane(" Filters ", lines, fp.width, fp.height, fp.visibleRows(), fp.focused)
}

func (fp filterPane) renderItem(item filterItem) string {
	if item.isHeader() {
		arrow := "▸"
		if fp.expanded[item.facet] {
			arrow = "▾"
		}
		return facetLabelStyle.Render(fmt.Sprintf(" %s %s", arrow, item.label))
	}

	v := fp.facets.Values[item.facet][item.value]
	label := truncateString(item.label, fp.width-12)
	count := facetCountStyle.Render(fmt.Sprintf("(%d)", v.Count))
	if v.Selected {
		return fmt.Sprintf("   %s %s %s", facetSelectedStyle.Render("+"), facetSelectedStyle.Render(label), count)
	}
	return fmt.Sprintf("     %s %s", label, count)
}

func (fp filterPane) visibleRows() int {
	return max(1, fp.height-4)
}

func (fp *filterPane) ensureVisible() {
	if fp.cursor < fp.offset {
		fp.offset = fp.cursor
	}
	if fp.cursor >= fp.offset+fp.visibleRows() {
		fp.offset = fp.cursor - fp.visibleRows() + 1
	}
}

func (fp *filterPane) setSize(w, h int) {
	fp.width = w
	fp.height = h
}

// renderPane draws a titled, bordered pane around lines, padding the body
// to rows lines.
func renderPane(title string, lines []string, width, height, rows int, focused bool) string {
	innerWidth := max(0, width-2)
	for len(lines) < rows {
		lines = append(lines, strings.Repeat(" ", innerWidth))
	}

	borderStyle := inactiveBorderStyle
	if focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(width - 2).
		Height(height - 3).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content)
}
