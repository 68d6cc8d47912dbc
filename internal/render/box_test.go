package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/ops"
)

func plainBox(prefs ops.Prefs) *Box {
	return NewBox(&bytes.Buffer{}, prefs).Plain()
}

func TestThemeFor(t *testing.T) {
	for _, name := range ops.Themes {
		assert.Equal(t, name, ThemeFor(name).Name)
	}
	assert.Equal(t, "hacker", ThemeFor("neon").Name)
	assert.Equal(t, lipgloss.Color("#bd93f9"), ThemeFor("dark").Header)
}

func TestBox_EmptyRendersNothing(t *testing.T) {
	assert.Equal(t, "", plainBox(ops.DefaultPrefs()).Render(nil))
}

func TestBox_Render(t *testing.T) {
	items := []command.Record{
		{Command: "git", Description: "Version control", Category: "Git"},
		{Command: "git status", Description: "Show changed files", Category: "Git"},
	}
	out := plainBox(ops.DefaultPrefs()).Render(items)

	assert.Contains(t, out, "👻 Command Ghost whispers...")
	assert.Contains(t, out, "git status")
	assert.Contains(t, out, "Show changed files")
	assert.Contains(t, out, "Git")
	assert.NotContains(t, out, "\x1b[", "plain box must not contain escape codes")
	assert.Equal(t, 500/PixelsPerColumn, lipgloss.Width(out))
}

func TestBox_NoEmoji(t *testing.T) {
	prefs := ops.DefaultPrefs()
	prefs.ShowEmoji = false
	out := plainBox(prefs).Render([]command.Record{{Command: "ls", Description: "List", Category: "Linux"}})

	assert.Contains(t, out, "Command Ghost whispers...")
	assert.NotContains(t, out, HeaderEmoji)
}

func TestBox_WidthFollowsPreference(t *testing.T) {
	items := []command.Record{{
		Command:     "docker build",
		Description: strings.Repeat("very long description ", 10),
		Category:    "Docker",
	}}
	for _, w := range []int{300, 650, 800} {
		prefs := ops.DefaultPrefs()
		prefs.BoxWidth = w
		out := plainBox(prefs).Render(items)
		assert.Equal(t, w/PixelsPerColumn, lipgloss.Width(out), "box_width %d", w)
		assert.Contains(t, out, "…")
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "", truncate("abc", 1))
}
