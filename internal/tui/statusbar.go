package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(m *Model, width int) string {
	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}

	left := " " + m.help.ShortHelpView(dashboardKeys.ShortHelp())

	right := ""
	if !m.lastUpdated.IsZero() {
		right = hintStyle.Render(m.src.Describe()+" · "+m.lastUpdated.Format(time.TimeOnly)) + " "
	}
	if m.stale {
		right = lipgloss.NewStyle().Foreground(colorYellow).Bold(true).Render("⚠ Stale") + " " + right
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}
