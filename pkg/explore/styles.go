package explore

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#e63948") // red
	colorSecondary = lipgloss.Color("10")      // green
	colorChunk     = lipgloss.Color("#D4AF37") // gold
	colorMuted     = lipgloss.Color("8")       // gray
	colorAccent    = lipgloss.Color("#11C3DB") // cyan
	colorHighlight = lipgloss.Color("15")      // white
)

// Pane border styles
var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted)
)

// Title style for pane headers
var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Background(colorPrimary).
	Padding(0, 1)

// Table row styles
var (
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("17")).
				Foreground(colorHighlight)

	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)
)

// Chunk body styles
var (
	chunkBodyStyle = lipgloss.NewStyle().
			Foreground(colorChunk)

	chunkMarkerStyle = lipgloss.NewStyle().
				Foreground(colorMuted)
)

// Provenance kind styles
var (
	fileKindStyle    = lipgloss.NewStyle().Foreground(colorSecondary)
	gitKindStyle     = lipgloss.NewStyle().Foreground(colorAccent)
	archiveKindStyle = lipgloss.NewStyle().Foreground(colorChunk)
	otherKindStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// Status bar
var statusBarStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

// Help styles
var (
	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Facet styles
var (
	facetLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	facetSelectedStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	facetCountStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)

// Detail field styles
var (
	fieldLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	fieldValueStyle = lipgloss.NewStyle().Foreground(colorHighlight)
)

// Modal overlay style
var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// renderKind styles a (possibly padded) provenance kind list by its first
// kind.
func renderKind(kind string) string {
	first := strings.TrimSpace(kind)
	if i := strings.Index(first, ","); i >= 0 {
		first = first[:i]
	}
	switch first {
	case "file":
		return fileKindStyle.Render(kind)
	case "git":
		return gitKindStyle.Render(kind)
	case "archive":
		return archiveKindStyle.Render(kind)
	default:
		return otherKindStyle.Render(kind)
	}
}

// renderContinues marks a chunk that hands its row over to the next chunk.
func renderContinues(endsWithNewline bool) string {
	if endsWithNewline {
		return chunkMarkerStyle.Render("continues")
	}
	return chunkMarkerStyle.Render("-")
}
