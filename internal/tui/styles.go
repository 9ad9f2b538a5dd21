package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/botboard-io/botboard/internal/models"
)

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	focusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorWhite)

	unfocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim)
)

// Bot list styles.
var (
	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})

	labelStyle = lipgloss.NewStyle().Foreground(colorDim)
	valueStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

// Bot status badge styles.
var (
	badgeActiveStyle    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	badgeIdleStyle      = lipgloss.NewStyle().Foreground(colorYellow)
	badgeErrorStyle     = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	badgeCompletedStyle = lipgloss.NewStyle().Foreground(colorCyan)
	badgeInactiveStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// Overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	overlayDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Fallback banner style.
var fallbackBannerStyle = lipgloss.NewStyle().
	Background(colorYellow).
	Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"}).
	Bold(true).
	Padding(0, 1)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// Activity type styles.
var (
	activityTypeStyle  = lipgloss.NewStyle().Foreground(colorCyan).Width(18)
	activityErrorStyle = lipgloss.NewStyle().Foreground(colorRed).Width(18)
	activityTimeStyle  = lipgloss.NewStyle().Foreground(colorDim).Width(10)
	runningStyle       = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
)

func renderBadge(s models.BotState) string {
	switch s {
	case models.StateActive:
		return badgeActiveStyle.Render("● Active")
	case models.StateIdle:
		return badgeIdleStyle.Render("◐ Idle")
	case models.StateError:
		return badgeErrorStyle.Render("✗ Error")
	case models.StateCompleted:
		return badgeCompletedStyle.Render("✓ Completed")
	default:
		return badgeInactiveStyle.Render("○ Inactive")
	}
}
