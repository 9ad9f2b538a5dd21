package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const ansiReset = "\x1b[0m"

// renderOverlay draws box centered over a dimmed copy of base.
func renderOverlay(base, box string, width, height int) string {
	rows := strings.Split(base, "\n")
	for i, row := range rows {
		rows[i] = overlayDimStyle.Render(ansi.Strip(row))
	}

	boxRows := strings.Split(box, "\n")
	boxWidth := lipgloss.Width(box)
	top := max((height-len(boxRows))/2, 1)
	col := max((width-boxWidth)/2, 1)

	for i, line := range boxRows {
		if r := top + i; r < len(rows) {
			rows[r] = splice(rows[r], line, col)
		}
	}
	return strings.Join(rows, "\n")
}

// splice replaces the cells of bg starting at col with line.
func splice(bg, line string, col int) string {
	end := col + lipgloss.Width(line)
	out := ansi.Truncate(bg, col, "") + ansiReset + line + ansiReset
	if w := lipgloss.Width(bg); end < w {
		out += ansi.Cut(bg, end, w)
	}
	return out
}
