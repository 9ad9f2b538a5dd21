package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	keys  []helpKey
}

type helpKey struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Global",
		keys: []helpKey{
			{"q / Ctrl+c", "Quit"},
			{"? / Ctrl+h", "Toggle help"},
			{"Tab / Enter", "Switch panel focus"},
			{"r", "Refresh now"},
			{"v", "Switch between activity-log and file views"},
		},
	},
	{
		title: "Bots",
		keys: []helpKey{
			{"j/k ↑/↓", "Select bot"},
		},
	},
	{
		title: "Detail",
		keys: []helpKey{
			{"j/k ↑/↓", "Scroll"},
			{"PgUp/PgDn", "Scroll a page"},
			{"Esc", "Back to bot list"},
		},
	},
}

// renderHelp renders the help overlay content.
func renderHelp(width int) string {
	maxWidth := 64
	if width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	title := overlayTitleStyle.Render("Keyboard Shortcuts")
	sections := make([]string, 0, len(helpSections)*4+3)
	sections = append(sections, title)

	for _, sec := range helpSections {
		header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Render(sec.title)
		sections = append(sections, "", header)

		for _, k := range sec.keys {
			sections = append(sections, "  "+lipgloss.NewStyle().Width(14).Render(keyHint(k.key, ""))+hintStyle.Render(k.desc))
		}
	}

	sections = append(sections, "",
		hintStyle.Render("Progress refreshes every poll interval. The activity-log view"),
		hintStyle.Render("falls back to file progress when logs cannot be read."),
		"",
		lipgloss.NewStyle().Foreground(colorDim).Render("Press Esc or ? to close"))

	content := strings.Join(sections, "\n")
	return overlayStyle.Width(maxWidth).Render(content)
}
