package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/botboard-io/botboard/internal/client"
	"github.com/botboard-io/botboard/internal/models"
)

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-16s", label)) + valueStyle.Render(value)
}

// renderDetail renders the detail panel for the bot with the given ID.
func renderDetail(board *client.Board, botID string, activities []models.Activity, width int, now time.Time) string {
	var lines []string

	if board != nil && board.Fallback != nil {
		lines = append(lines, fallbackBannerStyle.Render("Activity logs unavailable: file progress shown"), "")
	}

	switch {
	case board == nil:
		return hintStyle.Render("Loading…")
	case board.Real != nil:
		for i := range board.Real.Bots {
			if b := &board.Real.Bots[i]; b.ID == botID {
				lines = append(lines, renderRealBot(b, now)...)
			}
		}
	case board.Files != nil:
		for i := range board.Files.Bots {
			if b := &board.Files.Bots[i]; b.ID == botID {
				lines = append(lines, renderFileBot(b, now)...)
			}
		}
		lines = append(lines, "", sectionHeaderStyle.Render("Team"))
		lines = append(lines, renderSummary(board.Files)...)
	}

	lines = append(lines, "", sectionHeaderStyle.Render("Recent activity"))
	lines = append(lines, renderActivityLines(activities, width, now)...)
	return strings.Join(lines, "\n")
}

func renderRealBot(b *models.RealBotStatus, now time.Time) []string {
	running := "no"
	if b.IsProcessRunning {
		running = runningStyle.Render("yes")
	}
	m := b.Metrics
	return []string{
		sectionHeaderStyle.Render(b.Name) + "  " + renderBadge(b.Status),
		"",
		field("Progress", fmt.Sprintf("%d%%", b.Progress)),
		field("Process running", running),
		field("Last activity", client.Age(b.LastActivity, now)),
		field("Session start", client.Age(b.SessionStart, now)),
		field("Files created", fmt.Sprint(m.FilesCreated)),
		field("Files modified", fmt.Sprint(m.FilesModified)),
		field("Commands", fmt.Sprint(m.CommandsExecuted)),
		field("Errors", fmt.Sprint(m.ErrorsEncountered)),
		field("Session", fmt.Sprintf("%.0f min", m.SessionDurationMinutes)),
	}
}

func renderFileBot(b *models.BotStatus, now time.Time) []string {
	return []string{
		sectionHeaderStyle.Render(b.Name) + "  " + renderBadge(b.Status),
		"",
		field("Progress", fmt.Sprintf("%d%%", b.Progress)),
		field("Current task", b.CurrentTask),
		field("Last activity", client.Age(b.LastActivity, now)),
		field("Source files", fmt.Sprint(b.FilesCreated)),
		field("Expected files", fmt.Sprint(b.TotalFiles)),
		field("Lines of code", fmt.Sprint(b.Metrics.LinesOfCode)),
		field("Commits", fmt.Sprint(b.Metrics.Commits)),
	}
}

func renderSummary(d *models.MonitoringData) []string {
	eta := d.Efficiency.EstimatedCompletion
	if t, ok := models.ParseTimestamp(eta); ok {
		eta = t.Local().Format("2006-01-02")
	}
	return []string{
		field("Sync", d.Coordination.SyncStatus),
		field("Integration pts", fmt.Sprint(d.Coordination.IntegrationPoints)),
		field("Speedup", fmt.Sprintf("%.1fx", d.Efficiency.ParallelSpeedup)),
		field("Timeline", fmt.Sprintf("%.1f%%", d.Efficiency.TimelineProgress)),
		field("ETA", eta),
	}
}

// renderActivityLines lists records newest first.
func renderActivityLines(records []models.Activity, width int, now time.Time) []string {
	if len(records) == 0 {
		return []string{hintStyle.Render("No activity recorded.")}
	}
	lines := make([]string, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		a := records[i]
		typeStyle := activityTypeStyle
		if strings.Contains(a.ActivityType, "error") {
			typeStyle = activityErrorStyle
		}
		line := activityTimeStyle.Render(client.Age(a.Timestamp, now)) + typeStyle.Render(a.ActivityType) + a.Description
		lines = append(lines, ansi.Truncate(line, width, "…"))
	}
	return lines
}
