package explore

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/praetorian-inc/chunkpos/pkg/types"
)

func testModel() Model {
	return newModel(&exploreData{sources: testSources()})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestNewModel(t *testing.T) {
	m := testModel()

	if m.focus != paneSources {
		t.Errorf("expected sources focus, got %d", m.focus)
	}
	if m.details.source == nil || m.details.source.Path != "/a/one.go" {
		t.Fatalf("expected first source selected, got %+v", m.details.source)
	}
}

func TestModelNavigation(t *testing.T) {
	m := press(testModel(), runes("j"))

	if m.sources.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", m.sources.cursor)
	}
	if m.details.source.Path != "/b/two.txt" {
		t.Errorf("expected details for /b/two.txt, got %s", m.details.source.Path)
	}

	m = press(m, runes("G"))
	if m.sources.cursor != 2 {
		t.Errorf("expected cursor at bottom, got %d", m.sources.cursor)
	}
	m = press(m, runes("g"))
	if m.sources.cursor != 0 {
		t.Errorf("expected cursor at top, got %d", m.sources.cursor)
	}
}

func TestModelSortKeepsSelection(t *testing.T) {
	m := press(testModel(), runes("s"))

	if m.sources.sortBy != sortBySize {
		t.Fatalf("expected size sort, got %s", sortFieldNames[m.sources.sortBy])
	}
	want := []string{"/b/two.txt", "stdin", "/a/one.go"}
	for i, row := range m.sources.rows {
		if row.Path != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], row.Path)
		}
	}
	if sel := m.sources.selectedSource(); sel == nil || sel.Path != "/a/one.go" {
		t.Errorf("expected selection to follow /a/one.go, got %+v", sel)
	}
}

func TestModelChunkNavigation(t *testing.T) {
	m := press(testModel(), runes("d"), runes("l"))

	if m.focus != paneDetails {
		t.Fatalf("expected details focus, got %d", m.focus)
	}
	if m.details.chunkCursor != 1 {
		t.Errorf("expected chunk 1, got %d", m.details.chunkCursor)
	}

	// Past the last chunk stays put
	m = press(m, runes("l"))
	if m.details.chunkCursor != 1 {
		t.Errorf("expected chunk 1, got %d", m.details.chunkCursor)
	}

	m = press(m, runes("h"))
	if m.details.chunkCursor != 0 {
		t.Errorf("expected chunk 0, got %d", m.details.chunkCursor)
	}
}

func TestModelFilters(t *testing.T) {
	// F1 focuses the tree, j moves from the Provenance header to "file"
	m := press(testModel(), tea.KeyMsg{Type: tea.KeyF1}, runes("j"), runes("x"))

	if m.focus != paneFilters {
		t.Fatalf("expected filters focus, got %d", m.focus)
	}
	if len(m.sources.rows) != 1 || m.sources.rows[0].Path != "/a/one.go" {
		t.Fatalf("expected only /a/one.go, got %d rows", len(m.sources.rows))
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if len(m.sources.rows) != 3 {
		t.Errorf("expected all rows after reset, got %d", len(m.sources.rows))
	}
}

func TestModelToggleFilters(t *testing.T) {
	m := press(testModel(), tea.KeyMsg{Type: tea.KeyF1}, tea.KeyMsg{Type: tea.KeyF7})

	if m.showFilters {
		t.Error("expected filters hidden")
	}
	if m.focus != paneSources {
		t.Errorf("expected focus to move to sources, got %d", m.focus)
	}
}

func TestModelHelpOverlay(t *testing.T) {
	m := press(testModel(), runes("?"))
	if m.activeOverlay != overlayHelp {
		t.Fatalf("expected help overlay, got %d", m.activeOverlay)
	}

	// q closes the overlay instead of quitting
	updated, cmd := m.Update(runes("q"))
	m = updated.(Model)
	if m.activeOverlay != overlayNone {
		t.Error("expected overlay closed")
	}
	if cmd != nil {
		t.Error("expected no command when closing overlay")
	}

	if _, cmd := m.Update(runes("q")); cmd == nil {
		t.Error("expected quit command")
	}
}

func TestModelOpenSourceOverlay(t *testing.T) {
	m := testModel()
	m.details.content = []byte("first\nsecond\n")

	m = press(m, runes("o"))
	if m.activeOverlay != overlaySource {
		t.Fatalf("expected source overlay, got %d", m.activeOverlay)
	}
	if !strings.Contains(m.overlayContent, "second") {
		t.Errorf("expected source content in overlay, got %q", m.overlayContent)
	}
}

func TestModelView(t *testing.T) {
	m := testModel()
	if m.View() != "Loading..." {
		t.Error("expected loading view before the first resize")
	}

	m = press(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	for _, want := range []string{"Sources (3/3)", "Filters", "Details", "3 sources"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestBodyLines(t *testing.T) {
	lines := bodyLines([]byte("a\nb\nc\n"), 4, 2)

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if !strings.HasSuffix(lines[0], "5  a") {
		t.Errorf("expected first line numbered 5, got %q", lines[0])
	}
	if lines[2] != "... 1 more" {
		t.Errorf("expected truncation marker, got %q", lines[2])
	}
}

func TestChunkBody(t *testing.T) {
	content := []byte("hello world")

	if got := chunkBody(content, types.OffsetSpan{Start: 6, End: 11}); string(got) != "world" {
		t.Errorf("expected 'world', got %q", got)
	}
	if got := chunkBody(content, types.OffsetSpan{Start: 6, End: 20}); got != nil {
		t.Errorf("expected nil for out of range span, got %q", got)
	}
	if got := chunkBody(nil, types.OffsetSpan{}); got != nil {
		t.Errorf("expected nil without content, got %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.expected {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.expected)
		}
	}
}
