package status

import (
	"testing"
	"time"

	"github.com/botboard-io/botboard/internal/models"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedDeriver() *Deriver {
	return &Deriver{Thresholds: DefaultThresholds(), Now: func() time.Time { return now }}
}

func TestDeriveFiles(t *testing.T) {
	tests := []struct {
		name     string
		ev       FileEvidence
		want     models.BotState
		wantLast time.Time
	}{
		{
			name:     "running beats stale files",
			ev:       FileEvidence{Running: true, LastModified: now.Add(-3 * time.Hour), Progress: 40},
			want:     models.StateActive,
			wantLast: now,
		},
		{
			name:     "running beats completion",
			ev:       FileEvidence{Running: true, LastModified: now.Add(-time.Hour), Progress: 100},
			want:     models.StateActive,
			wantLast: now,
		},
		{
			name:     "recent modification",
			ev:       FileEvidence{LastModified: now.Add(-3 * time.Minute), Progress: 20},
			want:     models.StateActive,
			wantLast: now.Add(-3 * time.Minute),
		},
		{
			name:     "recent modification beats completion",
			ev:       FileEvidence{LastModified: now.Add(-time.Minute), Progress: 100},
			want:     models.StateActive,
			wantLast: now.Add(-time.Minute),
		},
		{
			name:     "complete and quiet",
			ev:       FileEvidence{LastModified: now.Add(-10 * time.Minute), Progress: 100},
			want:     models.StateCompleted,
			wantLast: now.Add(-10 * time.Minute),
		},
		{
			name:     "exactly at the active window is not active",
			ev:       FileEvidence{LastModified: now.Add(-5 * time.Minute), Progress: 50},
			want:     models.StateIdle,
			wantLast: now.Add(-5 * time.Minute),
		},
		{
			name: "missing tree",
			ev:   FileEvidence{Progress: 0},
			want: models.StateIdle,
		},
	}
	d := fixedDeriver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Derive(tt.ev)
			if got.State != tt.want {
				t.Errorf("State = %q, want %q", got.State, tt.want)
			}
			if !got.LastActivity.Equal(tt.wantLast) {
				t.Errorf("LastActivity = %v, want %v", got.LastActivity, tt.wantLast)
			}
			if got.Progress != tt.ev.Progress {
				t.Errorf("Progress = %d, want %d", got.Progress, tt.ev.Progress)
			}
		})
	}
}

func TestDeriveReported(t *testing.T) {
	metrics := func(created, modified, commands, errs int) models.ReportedMetrics {
		return models.ReportedMetrics{FilesCreated: created, FilesModified: modified, CommandsExecuted: commands, ErrorsEncountered: errs}
	}
	tests := []struct {
		name         string
		ev           ReportedEvidence
		want         models.BotState
		wantProgress int
	}{
		{
			name:         "errors beat a running process",
			ev:           ReportedEvidence{Running: true, Metrics: metrics(1, 0, 0, 6), LastActivity: now, HasActivity: true},
			want:         models.StateError,
			wantProgress: 2,
		},
		{
			name:         "error limit itself is tolerated",
			ev:           ReportedEvidence{Running: true, Metrics: metrics(0, 0, 0, 5)},
			want:         models.StateActive,
			wantProgress: 0,
		},
		{
			name:         "running without activity",
			ev:           ReportedEvidence{Running: true, Metrics: metrics(3, 2, 5, 0)},
			want:         models.StateActive,
			wantProgress: 20,
		},
		{
			name:         "fresh activity",
			ev:           ReportedEvidence{LastActivity: now.Add(-4 * time.Minute), HasActivity: true},
			want:         models.StateActive,
			wantProgress: 0,
		},
		{
			name:         "cooling activity",
			ev:           ReportedEvidence{LastActivity: now.Add(-10 * time.Minute), HasActivity: true},
			want:         models.StateIdle,
			wantProgress: 0,
		},
		{
			name:         "old activity",
			ev:           ReportedEvidence{Metrics: metrics(40, 30, 20, 0), LastActivity: now.Add(-time.Hour), HasActivity: true},
			want:         models.StateInactive,
			wantProgress: 100,
		},
		{
			name: "no activity at all",
			ev:   ReportedEvidence{},
			want: models.StateInactive,
		},
	}
	d := fixedDeriver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Derive(&tt.ev)
			if got.State != tt.want {
				t.Errorf("State = %q, want %q", got.State, tt.want)
			}
			if got.Progress != tt.wantProgress {
				t.Errorf("Progress = %d, want %d", got.Progress, tt.wantProgress)
			}
		})
	}
}

func TestDeriveSharedThresholds(t *testing.T) {
	d := fixedDeriver()
	d.Thresholds.ActiveWindow = 30 * time.Minute
	d.Thresholds.IdleWindow = time.Hour

	files := d.Derive(FileEvidence{LastModified: now.Add(-20 * time.Minute)})
	reported := d.Derive(ReportedEvidence{LastActivity: now.Add(-20 * time.Minute), HasActivity: true})
	if files.State != models.StateActive || reported.State != models.StateActive {
		t.Errorf("files=%q reported=%q, want both active", files.State, reported.State)
	}
}

func TestThresholdsFromSettings(t *testing.T) {
	got := ThresholdsFromSettings(models.NewSettings().Thresholds)
	if got != DefaultThresholds() {
		t.Errorf("ThresholdsFromSettings(defaults) = %+v, want %+v", got, DefaultThresholds())
	}
}

func TestCurrentTask(t *testing.T) {
	tests := []struct {
		progress int
		want     string
	}{
		{0, "Setting up project structure"},
		{24, "Setting up project structure"},
		{25, "Implementing core features"},
		{49, "Implementing core features"},
		{50, "Integration and testing"},
		{75, "Finalizing and optimization"},
		{99, "Finalizing and optimization"},
		{100, "Completed"},
	}
	for _, tt := range tests {
		if got := CurrentTask(tt.progress); got != tt.want {
			t.Errorf("CurrentTask(%d) = %q, want %q", tt.progress, got, tt.want)
		}
	}
}

func TestCoordinate(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{0, models.SyncPending},
		{0.25, models.SyncSynced},
		{100, models.SyncSynced},
	}
	for _, tt := range tests {
		got := Coordinate(tt.avg, DefaultTimeline())
		if got.SyncStatus != tt.want {
			t.Errorf("Coordinate(%v).SyncStatus = %q, want %q", tt.avg, got.SyncStatus, tt.want)
		}
		if got.IntegrationPoints != 4 || got.Conflicts != 0 {
			t.Errorf("Coordinate(%v) = %+v", tt.avg, got)
		}
	}
}

func TestSummarize(t *testing.T) {
	bot := func(id string, state models.BotState, progress int) models.BotStatus {
		return models.BotStatus{ID: id, Status: state, Progress: progress}
	}
	eff := DefaultTimeline().ParallelEfficiency
	tests := []struct {
		name        string
		bots        []models.BotStatus
		wantSync    string
		wantSpeedup float64
		wantAvg     float64
		wantETA     time.Time
	}{
		{
			name:        "no workstreams",
			bots:        nil,
			wantSync:    models.SyncPending,
			wantSpeedup: 1,
			wantAvg:     0,
			wantETA:     now.Add(42 * 24 * time.Hour),
		},
		{
			name:        "all zero",
			bots:        []models.BotStatus{bot("a", models.StateIdle, 0), bot("b", models.StateIdle, 0)},
			wantSync:    models.SyncPending,
			wantSpeedup: 1,
			wantAvg:     0,
			wantETA:     now.Add(42 * 24 * time.Hour),
		},
		{
			name:        "one active bot has no speedup",
			bots:        []models.BotStatus{bot("a", models.StateActive, 50), bot("b", models.StateIdle, 50)},
			wantSync:    models.SyncSynced,
			wantSpeedup: 1,
			wantAvg:     50,
			wantETA:     now.Add(21 * 24 * time.Hour),
		},
		{
			name: "three active bots",
			bots: []models.BotStatus{
				bot("a", models.StateActive, 100), bot("b", models.StateActive, 100),
				bot("c", models.StateActive, 100), bot("d", models.StateCompleted, 100),
			},
			wantSync:    models.SyncSynced,
			wantSpeedup: 3 * eff,
			wantAvg:     100,
			wantETA:     now,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.bots, DefaultTimeline(), now)
			if got.Bots == nil {
				t.Error("Bots is nil, want empty slice")
			}
			if got.Coordination.SyncStatus != tt.wantSync {
				t.Errorf("SyncStatus = %q, want %q", got.Coordination.SyncStatus, tt.wantSync)
			}
			if got.Efficiency.ParallelSpeedup != tt.wantSpeedup {
				t.Errorf("ParallelSpeedup = %v, want %v", got.Efficiency.ParallelSpeedup, tt.wantSpeedup)
			}
			if got.Efficiency.TimelineProgress != tt.wantAvg {
				t.Errorf("TimelineProgress = %v, want %v", got.Efficiency.TimelineProgress, tt.wantAvg)
			}
			if want := models.FormatTimestamp(tt.wantETA); got.Efficiency.EstimatedCompletion != want {
				t.Errorf("EstimatedCompletion = %q, want %q", got.Efficiency.EstimatedCompletion, want)
			}
			if got.Timestamp != "2025-03-01T12:00:00.000Z" {
				t.Errorf("Timestamp = %q", got.Timestamp)
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0}, {12.5, 13}, {12.49, 12}, {99.5, 100},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
