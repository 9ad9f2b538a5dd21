package tui

import "github.com/charmbracelet/bubbles/key"

// DashboardKeys are the dashboard bindings. They satisfy help.KeyMap.
type DashboardKeys struct {
	Up      key.Binding
	Down    key.Binding
	Tab     key.Binding
	Refresh key.Binding
	Variant key.Binding
	Help    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

var dashboardKeys = DashboardKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "navigate"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "enter"),
		key.WithHelp("Tab", "switch panel"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Variant: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "logs/files view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?", "ctrl+h"),
		key.WithHelp("?", "help"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "ctrl+q"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns the status bar hints.
func (k DashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help, k.Down, k.Tab, k.Refresh, k.Variant}
}

// FullHelp returns every binding grouped by column.
func (k DashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.Back},
		{k.Refresh, k.Variant, k.Help, k.Quit},
	}
}
