// Package tray implements the system tray icon and menu for the daemon.
package tray

// DaemonState provides read-only access to daemon state for the tray.
type DaemonState interface {
	Port() int
	WorkstreamCount() int
	Bots() []BotInfo
	RequestShutdown()
}

// BotInfo describes one workstream for display in the tray menu.
type BotInfo struct {
	Name     string
	Status   string // "active", "idle", "error", "completed"
	Progress int
}
