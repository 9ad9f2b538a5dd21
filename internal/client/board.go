package client

import (
	"context"
	"fmt"
	"time"

	"github.com/botboard-io/botboard/internal/models"
	"github.com/botboard-io/botboard/internal/status"
)

// Board is one dashboard refresh. Exactly one of Real and Files is set.
type Board struct {
	Real     *models.RealStatusResponse
	Files    *models.MonitoringData
	Fallback error // why the log-based view was unavailable, if it was tried
}

// Fetch loads the log-based view, falling back to the file-ratio view when
// it fails. With preferReal false only the file-ratio view is fetched.
func Fetch(ctx context.Context, src Source, preferReal bool) (*Board, error) {
	var realErr error
	if preferReal {
		real, err := src.RealBotStatus(ctx)
		if err == nil {
			return &Board{Real: real}, nil
		}
		realErr = err
	}

	files, err := src.BotStatus(ctx)
	if err != nil {
		if realErr != nil {
			return nil, fmt.Errorf("%w (log-based view: %v)", err, realErr)
		}
		return nil, err
	}
	return &Board{Files: files, Fallback: realErr}, nil
}

// Row is a variant-independent summary of one bot.
type Row struct {
	ID           string
	Name         string
	Status       models.BotState
	Progress     int
	LastActivity string
	Detail       string
	Running      bool
}

// Rows flattens the board for rendering.
func (b *Board) Rows() []Row {
	var rows []Row
	switch {
	case b.Real != nil:
		for _, bot := range b.Real.Bots {
			m := bot.Metrics
			rows = append(rows, Row{
				ID:           bot.ID,
				Name:         bot.Name,
				Status:       bot.Status,
				Progress:     bot.Progress,
				LastActivity: bot.LastActivity,
				Detail:       fmt.Sprintf("%d created, %d modified, %d commands, %d errors", m.FilesCreated, m.FilesModified, m.CommandsExecuted, m.ErrorsEncountered),
				Running:      bot.IsProcessRunning,
			})
		}
	case b.Files != nil:
		for _, bot := range b.Files.Bots {
			rows = append(rows, Row{
				ID:           bot.ID,
				Name:         bot.Name,
				Status:       bot.Status,
				Progress:     bot.Progress,
				LastActivity: bot.LastActivity,
				Detail:       fmt.Sprintf("%s (%d files, %d lines, %d commits)", bot.CurrentTask, bot.FilesCreated, bot.Metrics.LinesOfCode, bot.Metrics.Commits),
			})
		}
	}
	return rows
}

// TotalProgress is the overall progress shown in headers.
func (b *Board) TotalProgress() int {
	switch {
	case b.Real != nil:
		return b.Real.TotalProgress
	case b.Files != nil:
		return status.Round(b.Files.Efficiency.TimelineProgress)
	}
	return 0
}

// Variant names which view the board holds.
func (b *Board) Variant() string {
	if b.Real != nil {
		return "logs"
	}
	return "files"
}

// Age renders a timestamp as a short age relative to now. Values that are not
// timestamps ("Never") pass through unchanged.
func Age(ts string, now time.Time) string {
	t, ok := models.ParseTimestamp(ts)
	if !ok {
		return ts
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
