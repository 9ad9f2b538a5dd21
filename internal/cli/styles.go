package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/botboard-io/botboard/internal/models"
)

// Adaptive colors matching the TUI palette.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Semantic styles for CLI output.
var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
	styleCommand = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleUpdate  = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
)

// Bot status badge styles.
var (
	badgeActive    = lipgloss.NewStyle().Foreground(colorGreen)
	badgeIdle      = lipgloss.NewStyle().Foreground(colorYellow)
	badgeError     = lipgloss.NewStyle().Foreground(colorRed)
	badgeCompleted = lipgloss.NewStyle().Foreground(colorCyan)
	badgeInactive  = lipgloss.NewStyle().Foreground(colorDim)
)

func statusBadge(s models.BotState) string {
	switch s {
	case models.StateActive:
		return badgeActive.Render("● active")
	case models.StateIdle:
		return badgeIdle.Render("◐ idle")
	case models.StateError:
		return badgeError.Render("✗ error")
	case models.StateCompleted:
		return badgeCompleted.Render("✓ completed")
	default:
		return badgeInactive.Render("○ " + string(s))
	}
}
