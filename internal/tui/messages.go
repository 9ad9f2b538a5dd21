package tui

import (
	"time"

	"github.com/botboard-io/botboard/internal/client"
	"github.com/botboard-io/botboard/internal/models"
)

// BoardLoadedMsg carries one dashboard refresh.
type BoardLoadedMsg struct {
	Board *client.Board
	Err   error
	At    time.Time
}

// ActivityLoadedMsg carries the recent activity of one bot.
type ActivityLoadedMsg struct {
	BotID   string
	Records []models.Activity
	Err     error
}

// pollTickMsg triggers the periodic refresh.
type pollTickMsg struct{}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}
