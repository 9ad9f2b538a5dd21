package status

import (
	"math"
	"time"

	"github.com/botboard-io/botboard/internal/models"
)

// Timeline holds the inputs of the coordination and efficiency summaries.
type Timeline struct {
	WindowDays         int
	IntegrationPoints  int
	ParallelEfficiency float64
}

// DefaultTimeline returns the stock six-week plan.
func DefaultTimeline() Timeline {
	return Timeline{WindowDays: 42, IntegrationPoints: 4, ParallelEfficiency: 0.8}
}

// TimelineFromSettings converts the settings.yaml representation.
func TimelineFromSettings(c models.TimelineConfig) Timeline {
	return Timeline{
		WindowDays:         c.WindowDays,
		IntegrationPoints:  c.IntegrationPoints,
		ParallelEfficiency: c.ParallelEfficiency,
	}
}

// CurrentTask labels a progress bucket.
func CurrentTask(progress int) string {
	switch {
	case progress < 25:
		return "Setting up project structure"
	case progress < 50:
		return "Implementing core features"
	case progress < 75:
		return "Integration and testing"
	case progress < 100:
		return "Finalizing and optimization"
	default:
		return "Completed"
	}
}

// AverageProgress is the mean progress of bots, 0 for none.
func AverageProgress(progress []int) float64 {
	if len(progress) == 0 {
		return 0
	}
	sum := 0
	for _, p := range progress {
		sum += p
	}
	return float64(sum) / float64(len(progress))
}

// Round rounds half away from zero.
func Round(f float64) int {
	return int(math.Round(f))
}

// Coordinate builds the coordination summary.
func Coordinate(avg float64, tl Timeline) models.Coordination {
	sync := models.SyncPending
	if avg > 0 {
		sync = models.SyncSynced
	}
	return models.Coordination{
		IntegrationPoints: tl.IntegrationPoints,
		Conflicts:         0,
		SyncStatus:        sync,
	}
}

// Efficiency builds the efficiency summary. Speedup credits each active bot
// at the parallel efficiency once more than one is active; completion is
// projected linearly over the remaining share of the window.
func Efficiency(bots []models.BotStatus, avg float64, tl Timeline, now time.Time) models.Efficiency {
	active := 0
	for _, b := range bots {
		if b.Status == models.StateActive {
			active++
		}
	}
	speedup := 1.0
	if active > 1 {
		speedup = float64(active) * tl.ParallelEfficiency
	}
	remaining := math.Max(0, float64(tl.WindowDays)*(1-avg/100))
	eta := now.Add(time.Duration(remaining * float64(24*time.Hour)))
	return models.Efficiency{
		ParallelSpeedup:     speedup,
		TimelineProgress:    avg,
		EstimatedCompletion: models.FormatTimestamp(eta),
	}
}

// Summarize builds the complete file-variant snapshot around bots.
func Summarize(bots []models.BotStatus, tl Timeline, now time.Time) models.MonitoringData {
	progress := make([]int, len(bots))
	for i, b := range bots {
		progress[i] = b.Progress
	}
	avg := AverageProgress(progress)
	if bots == nil {
		bots = []models.BotStatus{}
	}
	return models.MonitoringData{
		Timestamp:    models.FormatTimestamp(now),
		Bots:         bots,
		Coordination: Coordinate(avg, tl),
		Efficiency:   Efficiency(bots, avg, tl, now),
	}
}
