package explore

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// focusedPane tracks which pane has keyboard focus.
type focusedPane int

const (
	paneFilters focusedPane = iota
	paneSources
	paneDetails
)

// overlay tracks which modal overlay is active.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlaySource
)

// pagerFinishedMsg is sent when an external pager process exits.
type pagerFinishedMsg struct{ err error }

// Model is the root Bubble Tea model for the explore TUI.
type Model struct {
	data    *exploreData
	filters filterPane
	sources sourcesPane
	details detailsPane

	focus         focusedPane
	activeOverlay overlay
	showFilters   bool

	// Overlay text and scroll position
	overlayContent string
	overlayOffset  int

	width  int
	height int
	err    error
}

// New creates a new Model by loading data from the given datastore path.
func New(datastorePath string) (Model, error) {
	data, err := loadData(datastorePath)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

func newModel(data *exploreData) Model {
	m := Model{
		data:        data,
		filters:     newFilterPane(buildFacets(data.sources)),
		sources:     newSourcesPane(data.sources),
		details:     newDetailsPane(),
		focus:       paneSources,
		showFilters: true,
	}
	m.sources.focused = true
	m.selectSource()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("chunkpos explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pagerFinishedMsg:
		m.err = msg.err
		return m, nil

	case tea.MouseMsg:
		if m.activeOverlay != overlayNone {
			return m, nil
		}
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.handleMouseClick(msg.X, msg.Y)
		return m, nil

	case tea.KeyMsg:
		if m.activeOverlay != overlayNone {
			m.updateOverlay(msg)
			return m, nil
		}

		// Global keys (work regardless of focus)
		switch {
		case keyMatches(msg, defaultKeys.ForceQuit), keyMatches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleHelp):
			m.showOverlay(overlayHelp, helpText, 0)
			return m, nil
		case keyMatches(msg, defaultKeys.ToggleFilters):
			m.showFilters = !m.showFilters
			if !m.showFilters && m.focus == paneFilters {
				m.setFocus(paneSources)
			}
			return m, nil
		case keyMatches(msg, defaultKeys.FocusFilters):
			if m.showFilters {
				m.setFocus(paneFilters)
			}
			return m, nil
		case keyMatches(msg, defaultKeys.FocusSources):
			m.setFocus(paneSources)
			return m, nil
		case keyMatches(msg, defaultKeys.FocusDetails):
			m.setFocus(paneDetails)
			return m, nil
		case keyMatches(msg, defaultKeys.OpenSource) && m.focus != paneFilters:
			cmd := m.openSource()
			return m, cmd
		}

		// Delegate to focused pane
		var cmd tea.Cmd
		switch m.focus {
		case paneFilters:
			m.filters, cmd = m.filters.Update(msg)
			m.applyFilters()
		case paneSources:
			prev := m.sources.selectedSource()
			m.sources, cmd = m.sources.Update(msg)
			if m.sources.selectedSource() != prev {
				m.selectSource()
			}
		case paneDetails:
			m.details, cmd = m.details.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m *Model) updateOverlay(msg tea.KeyMsg) {
	switch {
	case keyMatches(msg, defaultKeys.Quit),
		keyMatches(msg, defaultKeys.ForceQuit),
		m.activeOverlay == overlayHelp && keyMatches(msg, defaultKeys.ToggleHelp),
		m.activeOverlay == overlaySource && keyMatches(msg, defaultKeys.OpenSource):
		m.activeOverlay = overlayNone
	case keyMatches(msg, defaultKeys.Down):
		m.overlayOffset++
	case keyMatches(msg, defaultKeys.Up):
		m.overlayOffset = max(0, m.overlayOffset-1)
	case keyMatches(msg, defaultKeys.PageDown):
		m.overlayOffset += m.height / 2
	case keyMatches(msg, defaultKeys.PageUp):
		m.overlayOffset = max(0, m.overlayOffset-m.height/2)
	case keyMatches(msg, defaultKeys.Home):
		m.overlayOffset = 0
	}
}

func (m *Model) showOverlay(o overlay, content string, offset int) {
	m.activeOverlay = o
	m.overlayContent = content
	m.overlayOffset = offset
}

// layout returns the pane dimensions for the current window size.
func (m Model) layout() (filtersWidth, dataWidth, sourcesHeight, detailsHeight int) {
	contentHeight := m.height - 2 // status bar + padding
	dataWidth = m.width
	if m.showFilters {
		filtersWidth = min(m.width*30/100, 40)
		dataWidth -= filtersWidth
	}
	sourcesHeight = contentHeight * 40 / 100
	detailsHeight = contentHeight - sourcesHeight
	return filtersWidth, dataWidth, sourcesHeight, detailsHeight
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.activeOverlay != overlayNone {
		return m.renderOverlay()
	}

	filtersWidth, dataWidth, sourcesHeight, detailsHeight := m.layout()

	m.sources.setSize(dataWidth, sourcesHeight)
	m.details.setSize(dataWidth, detailsHeight)
	mainContent := lipgloss.JoinVertical(lipgloss.Left, m.sources.View(), m.details.View())

	if m.showFilters {
		m.filters.setSize(filtersWidth, m.height-2)
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, m.filters.View(), mainContent)
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	chunks := 0
	for _, s := range m.sources.rows {
		chunks += len(s.Chunks)
	}
	status := fmt.Sprintf(" %d sources | %d shown | %d chunks", len(m.data.sources), len(m.sources.rows), chunks)
	if m.err != nil {
		status += " | " + m.err.Error()
	}
	left := statusBarStyle.Render(status)

	var hints []string
	for _, h := range [][2]string{
		{"j/k", "nav"}, {"h/l", "chunk"}, {"f/d", "focus"}, {"s", "sort"},
		{"o", "source"}, {"F7", "filters"}, {"?", "help"},
	} {
		hints = append(hints, helpKeyStyle.Render(h[0])+":"+helpDescStyle.Render(h[1]))
	}
	right := strings.Join(hints, "  ")

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderOverlay() string {
	overlayWidth := m.width * 80 / 100
	overlayHeight := m.height * 80 / 100

	title := " Help (q to close) "
	if m.activeOverlay == overlaySource {
		title = " Source (q to close) "
	}

	box := modalStyle.
		Width(overlayWidth - 4).
		Height(overlayHeight - 2).
		Render(scrollWindow(m.overlayContent, m.overlayOffset, overlayHeight-4))

	overlayView := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), box)

	// Center on screen
	hPad := (m.width - lipgloss.Width(overlayView)) / 2
	vPad := (m.height - lipgloss.Height(overlayView)) / 2

	return strings.Repeat("\n", max(0, vPad)) +
		lipgloss.NewStyle().PaddingLeft(max(0, hPad)).Render(overlayView)
}

// scrollWindow returns at most height lines of text starting at offset.
func scrollWindow(text string, offset, height int) string {
	if text == "" {
		return "  No source available"
	}
	lines := strings.Split(text, "\n")
	offset = min(max(0, offset), max(0, len(lines)-1))
	end := min(offset+max(1, height), len(lines))
	return strings.Join(lines[offset:end], "\n")
}

func (m *Model) setFocus(p focusedPane) {
	m.filters.focused = p == paneFilters
	m.sources.focused = p == paneSources
	m.details.focused = p == paneDetails
	m.focus = p
}

func (m *Model) selectSource() {
	s := m.sources.selectedSource()
	if s == nil {
		m.details.setSource(nil, nil)
		return
	}
	content, _ := m.data.sourceBytes(s.ID)
	m.details.setSource(s, content)
}

func (m *Model) handleMouseClick(x, y int) {
	filtersWidth, _, sourcesHeight, _ := m.layout()

	switch {
	case m.showFilters && x < filtersWidth:
		m.setFocus(paneFilters)
		idx := y - 2 + m.filters.offset // title + border top
		if y >= 2 && idx < len(m.filters.items) {
			m.filters.cursor = idx
			m.filters.toggleCurrent()
			m.applyFilters()
		}
	case y < sourcesHeight:
		m.setFocus(paneSources)
		idx := y - 4 + m.sources.offset // title + border top + header + separator
		if y >= 4 && idx < len(m.sources.rows) {
			m.sources.cursor = idx
			m.selectSource()
		}
	default:
		m.setFocus(paneDetails)
	}
}

func (m *Model) applyFilters() {
	prev := m.sources.selectedSource()

	if !m.filters.facets.hasActiveFilters() {
		m.sources.setFilteredRows(append([]*sourceRow(nil), m.data.sources...))
	} else {
		var filtered []*sourceRow
		for _, s := range m.data.sources {
			if m.filters.facets.matchesSource(s) {
				filtered = append(filtered, s)
			}
		}
		m.sources.setFilteredRows(filtered)
	}
	m.filters.facets.updateCounts(m.data.sources)

	if m.sources.selectedSource() != prev {
		m.selectSource()
	}
}

// openSource shows the selected chunk in its source: the file in $PAGER
// when it still exists on disk, otherwise the stored content in an overlay.
func (m *Model) openSource() tea.Cmd {
	s := m.details.source
	if s == nil {
		return nil
	}
	row := 0
	if c := m.details.selectedChunk(); c != nil {
		row = c.Forward.Start.Row
	}

	for _, prov := range s.Provenance {
		if fp, ok := prov.(types.FileProvenance); ok {
			if _, err := os.Stat(fp.FilePath); err == nil {
				return openInPager(fp.FilePath, row+1)
			}
		}
	}

	m.showOverlay(overlaySource, string(m.details.content), row)
	return nil
}

func openInPager(filePath string, line int) tea.Cmd {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	var args []string
	if line > 0 && pager == "less" {
		args = append(args, fmt.Sprintf("+%d", line))
	}
	args = append(args, filePath)

	c := exec.Command(pager, args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return pagerFinishedMsg{err: err}
	})
}

// Close releases resources held by the model.
func (m *Model) Close() error {
	if m.data != nil {
		return m.data.close()
	}
	return nil
}

const helpText = `chunkpos explore - Chunk Index Browser

NAVIGATION
  j/k or Up/Down    Move cursor up/down
  h/l or Left/Right Previous/next chunk (details) or collapse/expand (filters)
  Ctrl+f/Ctrl+b     Page down/up
  g/G               Jump to top/bottom

FOCUS
  F1                Focus filters pane
  f                 Focus sources pane
  d                 Focus details pane
  F7                Toggle filters pane visibility

FILTERS
  x or Space        Toggle filter value
  Ctrl+r            Reset all filters

VIEWS
  s                 Cycle sort column
  o                 Open source at the selected chunk
  ?                 Toggle this help screen

QUIT
  q                 Quit
  Ctrl+c            Force quit
`
