package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/botboard-io/botboard/internal/client"
)

// cardHeight is the number of lines one bot occupies in the list.
const cardHeight = 4

// renderBotList renders one card per bot: name and badge, progress bar,
// last activity, and a spacer.
func renderBotList(rows []client.Row, selected int, bar progress.Model, width int, now time.Time) string {
	if len(rows) == 0 {
		return sectionHeaderStyle.Render("No workstreams") + "\n\n" +
			hintStyle.Render("Run `botboard workstreams init`\nto configure the default bots.")
	}

	bar.Width = max(width-6, 4)

	var b strings.Builder
	for i, r := range rows {
		badge := renderBadge(r.Status)
		name := r.Name
		if r.Running {
			name += " " + runningStyle.Render("▶")
		}
		nameWidth := width - lipgloss.Width(badge) - 1
		if lipgloss.Width(name) > nameWidth {
			name = ansi.Truncate(name, max(nameWidth, 1), "…")
		}
		gap := max(width-lipgloss.Width(name)-lipgloss.Width(badge), 1)

		lines := []string{
			sectionHeaderStyle.Render(name) + strings.Repeat(" ", gap) + badge,
			bar.ViewAs(float64(r.Progress)/100) + fmt.Sprintf(" %3d%%", r.Progress),
			labelStyle.Render("last: ") + valueStyle.Render(client.Age(r.LastActivity, now)),
			"",
		}
		if i == selected {
			for j := range lines[:3] {
				lines[j] = selectedItemStyle.Width(width).Render(lines[j])
			}
		}
		b.WriteString(strings.Join(lines, "\n"))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// visibleWindow returns the first card index to render so that selected
// stays on screen.
func visibleWindow(selected, total, height int) int {
	perPage := max(height/cardHeight, 1)
	if total <= perPage || selected < perPage {
		return 0
	}
	start := selected - perPage + 1
	if start > total-perPage {
		start = total - perPage
	}
	return start
}
