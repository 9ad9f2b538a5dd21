package tray

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/getlantern/systray"
)

const maxBotSlots = 10

var (
	state    DaemonState
	onStart  func()
	onExit   func()
	portItem *systray.MenuItem

	// Pre-allocated bot menu slots
	botSlots    [maxBotSlots]*systray.MenuItem
	noBotsItem  *systray.MenuItem
	openAPIItem *systray.MenuItem
	quitItem    *systray.MenuItem

	refreshOnce sync.Once
	stopRefresh = make(chan struct{})
)

// RefreshInterval is how often the bot menu is rebuilt while the tray runs.
var RefreshInterval = 5 * time.Second

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (start the server here).
// onExitFn is called when the tray exits (cleanup here).
func Run(s DaemonState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip(FormatTooltip(0, nil))

	header := systray.AddMenuItem("Botboard Daemon", "")
	header.Disable()

	portItem = systray.AddMenuItem("Starting...", "")
	portItem.Disable()

	systray.AddSeparator()

	for i := 0; i < maxBotSlots; i++ {
		botSlots[i] = systray.AddMenuItem("", "")
		botSlots[i].Disable()
		botSlots[i].Hide()
	}

	noBotsItem = systray.AddMenuItem("No workstreams configured", "")
	noBotsItem.Disable()

	systray.AddSeparator()

	openAPIItem = systray.AddMenuItem("Copy API URL", "Log the status endpoint URL")
	quitItem = systray.AddMenuItem("Quit", "Shut down Botboard daemon")

	if onStart != nil {
		onStart()
	}

	if state != nil {
		portItem.SetTitle(fmt.Sprintf("Running on port: %d", state.Port()))
		refresh()
		refreshOnce.Do(func() { go refreshLoop() })
	}

	go handleClicks()
}

func onQuit() {
	select {
	case <-stopRefresh:
	default:
		close(stopRefresh)
	}
	if onExit != nil {
		onExit()
	}
}

func refreshLoop() {
	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stopRefresh:
			return
		case <-ticker.C:
			refresh()
		}
	}
}

func handleClicks() {
	for {
		select {
		case <-openAPIItem.ClickedCh:
			if state != nil {
				log.Printf("Status API: http://localhost:%d/api/bot-status", state.Port())
			}
		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestShutdown()
			}
		}
	}
}

func refresh() {
	if state == nil {
		return
	}
	UpdateBots(state.Bots())
}

// UpdateBots refreshes the bot menu items and tooltip.
func UpdateBots(bots []BotInfo) {
	for i := 0; i < maxBotSlots; i++ {
		botSlots[i].Hide()
	}

	if len(bots) == 0 {
		noBotsItem.Show()
	} else {
		noBotsItem.Hide()
		for i, b := range bots {
			if i >= maxBotSlots {
				break
			}
			botSlots[i].SetTitle(FormatBotTitle(b))
			botSlots[i].Show()
		}
	}

	count := len(bots)
	if state != nil {
		count = state.WorkstreamCount()
	}
	systray.SetTooltip(FormatTooltip(count, bots))
}

// FormatTooltip summarizes the workstreams for the tray tooltip.
func FormatTooltip(workstreams int, bots []BotInfo) string {
	active := 0
	for _, b := range bots {
		if b.Status == "active" {
			active++
		}
	}
	return fmt.Sprintf("Botboard: %d workstreams, %d active", workstreams, active)
}

// FormatBotTitle renders one menu entry.
func FormatBotTitle(b BotInfo) string {
	marker := "○"
	switch b.Status {
	case "active":
		marker = "●"
	case "completed":
		marker = "✓"
	case "error":
		marker = "✗"
	}
	return fmt.Sprintf("%s %s  %d%% (%s)", marker, b.Name, b.Progress, b.Status)
}
