package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/ops"
)

// Header text shown above the suggestions.
const (
	HeaderText  = "Command Ghost whispers..."
	HeaderEmoji = "👻"
)

// PixelsPerColumn converts the box_width preference to terminal columns.
const PixelsPerColumn = 8

// Box renders suggestions with the user's display preferences.
type Box struct {
	renderer *lipgloss.Renderer
	prefs    ops.Prefs
}

// NewBox creates a box whose color support is detected from w.
func NewBox(w io.Writer, prefs ops.Prefs) *Box {
	return &Box{renderer: lipgloss.NewRenderer(w), prefs: prefs}
}

// Plain disables colors, e.g. for NO_COLOR or piped output.
func (b *Box) Plain() *Box {
	b.renderer.SetColorProfile(termenv.Ascii)
	return b
}

// Columns is the outer width of the box in terminal columns.
func (b *Box) Columns() int {
	return b.prefs.BoxWidth / PixelsPerColumn
}

// Header returns the header line, with the ghost unless emoji are off.
func (b *Box) Header() string {
	if b.prefs.ShowEmoji {
		return " " + HeaderEmoji + " " + HeaderText
	}
	return " " + HeaderText
}

// Render draws the box. No suggestions render as the empty string.
func (b *Box) Render(items []command.Record) string {
	if len(items) == 0 {
		return ""
	}

	theme := ThemeFor(b.prefs.Theme)
	r := b.renderer
	inner := b.Columns() - 2 // border

	header := r.NewStyle().
		Bold(true).
		Foreground(theme.Header).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(theme.Border).
		Width(inner - 2).
		Render(b.Header())

	chip := r.NewStyle().Bold(true).Foreground(theme.CommandFg).Background(theme.CommandBg).Padding(0, 1)
	desc := r.NewStyle().Foreground(theme.Foreground).Padding(0, 1)
	badge := r.NewStyle().Bold(true).Foreground(theme.Background).Background(theme.Foreground).Padding(0, 1)

	rows := []string{header}
	for _, it := range items {
		cmd := chip.Render(it.Command)
		cat := badge.Render(it.Category)
		room := inner - 2 - lipgloss.Width(cmd) - lipgloss.Width(cat) - 2
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center,
			cmd, desc.Render(truncate(it.Description, room)), cat))
	}

	return r.NewStyle().
		Background(theme.Background).
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Width(inner).
		Render(strings.Join(rows, "\n"))
}

// truncate shortens s to at most n columns, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 1 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
