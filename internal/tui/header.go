package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/botboard-io/botboard/internal/client"
)

func renderHeader(board *client.Board, spinnerView string, loading bool, width int) string {
	dot := lipgloss.NewStyle().Foreground(colorCyan).Render("●")
	name := lipgloss.NewStyle().Bold(true).Render("Botboard")

	variant := ""
	overall := ""
	if board != nil {
		tabs := renderTabs([]string{"Logs", "Files"}, map[string]int{"logs": 0, "files": 1}[board.Variant()])
		variant = tabs
		overall = fmt.Sprintf("Overall %d%%", board.TotalProgress())
	}

	left := fmt.Sprintf(" %s %s  %s", dot, name, variant)
	right := overall + " "
	if loading {
		right = spinnerView + " " + right
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(colorWhite)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

func renderTabs(tabs []string, active int) string {
	var parts []string
	for i, tab := range tabs {
		if i == active {
			parts = append(parts, activeTabStyle.Render(tab))
		} else {
			parts = append(parts, inactiveTabStyle.Render(tab))
		}
	}
	return strings.Join(parts, tabSepStyle.Render(" | "))
}
