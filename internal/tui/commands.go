package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/botboard-io/botboard/internal/client"
)

// requestTimeout bounds a single refresh.
const requestTimeout = 10 * time.Second

// activityLimit is how many log records the detail panel shows.
const activityLimit = 20

func fetchBoardCmd(ctx context.Context, src client.Source, preferReal bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		board, err := client.Fetch(ctx, src, preferReal)
		return BoardLoadedMsg{Board: board, Err: err, At: time.Now()}
	}
}

func fetchActivityCmd(ctx context.Context, src client.Source, botID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		records, err := src.Activity(ctx, botID, activityLimit)
		return ActivityLoadedMsg{BotID: botID, Records: records, Err: err}
	}
}

func pollTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}
