// Package tui implements the interactive bot dashboard.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/botboard-io/botboard/internal/client"
)

// DefaultPollInterval matches the refresh rate of the web dashboard.
const DefaultPollInterval = 5 * time.Second

// Options configures the dashboard.
type Options struct {
	Interval   time.Duration
	PreferReal bool // start on the activity-log view
}

// Run launches the dashboard over src and blocks until the user quits.
func Run(src client.Source, opts Options) error {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	model := NewModel(src, opts)
	defer model.cancel()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
