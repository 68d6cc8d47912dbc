// Package render draws the suggestion box for terminals.
package render

import "github.com/charmbracelet/lipgloss"

// Theme is the palette of a suggestion box.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Foreground lipgloss.Color
	Border     lipgloss.Color
	CommandBg  lipgloss.Color
	CommandFg  lipgloss.Color
	Header     lipgloss.Color
}

var themes = map[string]Theme{
	"hacker": {
		Name:       "hacker",
		Background: lipgloss.Color("#000000"),
		Foreground: lipgloss.Color("#00FF00"),
		Border:     lipgloss.Color("#00FF00"),
		CommandBg:  lipgloss.Color("#00FF00"),
		CommandFg:  lipgloss.Color("#000000"),
		Header:     lipgloss.Color("#00FF00"),
	},
	"purple": {
		Name:       "purple",
		Background: lipgloss.Color("#1a1a2e"),
		Foreground: lipgloss.Color("#e94560"),
		Border:     lipgloss.Color("#16213e"),
		CommandBg:  lipgloss.Color("#0f3460"),
		CommandFg:  lipgloss.Color("#e94560"),
		Header:     lipgloss.Color("#e94560"),
	},
	"dark": {
		Name:       "dark",
		Background: lipgloss.Color("#2d2d2d"),
		Foreground: lipgloss.Color("#f8f8f2"),
		Border:     lipgloss.Color("#444444"),
		CommandBg:  lipgloss.Color("#444444"),
		CommandFg:  lipgloss.Color("#f8f8f2"),
		Header:     lipgloss.Color("#bd93f9"),
	},
	"light": {
		Name:       "light",
		Background: lipgloss.Color("#f8f8f2"),
		Foreground: lipgloss.Color("#282a36"),
		Border:     lipgloss.Color("#444444"),
		CommandBg:  lipgloss.Color("#6272a4"),
		CommandFg:  lipgloss.Color("#f8f8f2"),
		Header:     lipgloss.Color("#44475a"),
	},
}

// ThemeFor returns the named theme, or hacker for unknown names.
func ThemeFor(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["hacker"]
}
