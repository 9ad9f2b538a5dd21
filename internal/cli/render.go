package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/botboard-io/botboard/internal/client"
	"github.com/botboard-io/botboard/internal/models"
)

const progressBarWidth = 20

// progressBar renders a fixed-width text bar for percent in 0..100.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// renderBoard prints a status table for the board.
func renderBoard(w io.Writer, board *client.Board, source string, now time.Time) {
	rows := board.Rows()

	fmt.Fprintf(w, "%s %s\n", styleBrand.Render("Botboard"), styleHint.Render(fmt.Sprintf("(%s view from %s)", board.Variant(), source)))
	if board.Fallback != nil {
		fmt.Fprintln(w, styleWarning.Render("Activity logs unavailable, showing file progress: ")+styleHint.Render(board.Fallback.Error()))
	}
	fmt.Fprintln(w)

	if len(rows) == 0 {
		fmt.Fprintln(w, styleHint.Render("No workstreams configured. Run `botboard workstreams init --base DIR`."))
		return
	}

	nameWidth := 4
	for _, r := range rows {
		if n := lipgloss.Width(r.Name); n > nameWidth {
			nameWidth = n
		}
	}
	nameStyle := lipgloss.NewStyle().Width(nameWidth + 2).Bold(true)
	badgeStyle := lipgloss.NewStyle().Width(14)

	for _, r := range rows {
		running := ""
		if r.Running {
			running = styleSuccess.Render(" [running]")
		}
		fmt.Fprintf(w, "%s%s%s %3d%%  %s%s\n",
			nameStyle.Render(r.Name),
			badgeStyle.Render(statusBadge(r.Status)),
			progressBar(r.Progress, progressBarWidth),
			r.Progress,
			styleLabel.Render(client.Age(r.LastActivity, now)),
			running,
		)
		fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", nameWidth+2), styleHint.Render(ansi.Truncate(r.Detail, 80, "…")))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", styleLabel.Render("Overall:"), styleValue.Render(fmt.Sprintf("%d%%", board.TotalProgress())))
	if f := board.Files; f != nil {
		fmt.Fprintf(w, "%s %s  %s %s  %s %.1fx  %s %s\n",
			styleLabel.Render("Sync:"), styleValue.Render(f.Coordination.SyncStatus),
			styleLabel.Render("Integration points:"), styleValue.Render(fmt.Sprint(f.Coordination.IntegrationPoints)),
			styleLabel.Render("Speedup:"), f.Efficiency.ParallelSpeedup,
			styleLabel.Render("ETA:"), styleValue.Render(shortDate(f.Efficiency.EstimatedCompletion)),
		)
	}
}

func shortDate(ts string) string {
	if t, ok := models.ParseTimestamp(ts); ok {
		return t.Local().Format("2006-01-02")
	}
	return ts
}

// renderActivities prints activity records oldest first.
func renderActivities(w io.Writer, records []models.Activity, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, styleHint.Render("No activity recorded."))
		return
	}
	typeStyle := lipgloss.NewStyle().Width(18).Foreground(colorCyan)
	for _, a := range records {
		fmt.Fprintf(w, "%s  %s %s\n",
			styleLabel.Render(fmt.Sprintf("%-10s", client.Age(a.Timestamp, now))),
			typeStyle.Render(a.ActivityType),
			a.Description,
		)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
