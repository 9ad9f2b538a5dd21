// Package collector gathers evidence for every configured workstream and
// turns it into dashboard snapshots. Each call rescans from scratch.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/botboard-io/botboard/internal/activity"
	"github.com/botboard-io/botboard/internal/gitlog"
	"github.com/botboard-io/botboard/internal/liveness"
	"github.com/botboard-io/botboard/internal/models"
	"github.com/botboard-io/botboard/internal/scan"
	"github.com/botboard-io/botboard/internal/status"
)

// RecentActivities is the number of log records attached to a reported status.
const RecentActivities = 5

// CommitCounter counts commits in a repository, 0 on failure.
type CommitCounter interface {
	CommitCount(ctx context.Context, dir string) int
}

// LivenessFactory builds the liveness check of a workstream.
type LivenessFactory func(ws *models.Workstream) liveness.Checker

// Collector builds status snapshots for a manifest.
type Collector struct {
	manifest   *models.Manifest
	thresholds status.Thresholds
	timeline   status.Timeline
	commits    CommitCounter
	liveness   LivenessFactory
	now        func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// WithCommitCounter replaces the git commit counter.
func WithCommitCounter(cc CommitCounter) Option {
	return func(c *Collector) { c.commits = cc }
}

// WithLiveness replaces how liveness checks are built.
func WithLiveness(f LivenessFactory) Option {
	return func(c *Collector) { c.liveness = f }
}

// WithThresholds replaces the status thresholds.
func WithThresholds(t status.Thresholds) Option {
	return func(c *Collector) { c.thresholds = t }
}

// WithTimeline replaces the summary inputs.
func WithTimeline(tl status.Timeline) Option {
	return func(c *Collector) { c.timeline = tl }
}

// WithSettings applies the thresholds and timeline from settings.
func WithSettings(s *models.Settings) Option {
	return func(c *Collector) {
		if s == nil {
			return
		}
		c.thresholds = status.ThresholdsFromSettings(s.Thresholds)
		c.timeline = status.TimelineFromSettings(s.Timeline)
	}
}

// New creates a Collector with default thresholds, git, and liveness checks
// read from each workstream's probe configuration.
func New(manifest *models.Manifest, opts ...Option) *Collector {
	if manifest == nil {
		manifest = &models.Manifest{}
	}
	procs := liveness.SystemProcesses{}
	c := &Collector{
		manifest:   manifest,
		thresholds: status.DefaultThresholds(),
		timeline:   status.DefaultTimeline(),
		commits:    gitlog.Counter{},
		liveness: func(ws *models.Workstream) liveness.Checker {
			return liveness.FromWorkstream(ws, procs)
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Workstreams returns the configured workstreams in order.
func (c *Collector) Workstreams() []models.Workstream {
	return c.manifest.Workstreams
}

// Workstream looks up a workstream by ID.
func (c *Collector) Workstream(id string) (*models.Workstream, bool) {
	return c.manifest.Find(id)
}

func (c *Collector) deriver(now time.Time) *status.Deriver {
	return &status.Deriver{Thresholds: c.thresholds, Now: func() time.Time { return now }}
}

// fanOut runs fn for every workstream concurrently. Each goroutine owns one
// slot of the result, so output order follows the manifest.
func fanOut[T any](ws []models.Workstream, fn func(*models.Workstream) T) []T {
	out := make([]T, len(ws))
	var wg sync.WaitGroup
	for i := range ws {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = fn(&ws[i])
		}(i)
	}
	wg.Wait()
	return out
}

// Snapshot computes the file-ratio status of every workstream.
func (c *Collector) Snapshot(ctx context.Context) models.MonitoringData {
	now := c.now()
	d := c.deriver(now)
	bots := fanOut(c.manifest.Workstreams, func(ws *models.Workstream) models.BotStatus {
		return c.botStatus(ctx, d, ws)
	})
	return status.Summarize(bots, c.timeline, now)
}

// Bot computes the file-ratio status of one workstream.
func (c *Collector) Bot(ctx context.Context, id string) (models.BotStatus, bool) {
	ws, ok := c.manifest.Find(id)
	if !ok {
		return models.BotStatus{}, false
	}
	return c.botStatus(ctx, c.deriver(c.now()), ws), true
}

func (c *Collector) botStatus(ctx context.Context, d *status.Deriver, ws *models.Workstream) models.BotStatus {
	files := scan.Scan(ws.Path, scan.Options{Extensions: ws.Extensions, SkipDirs: ws.SkipDirs})
	expected := scan.ExpectedProgress(ws.Path, ws.ExpectedFiles)
	res := d.Derive(status.FileEvidence{
		Running:      c.liveness(ws).Running(ctx),
		LastModified: scan.RootModTime(ws.Path),
		Progress:     expected.Percent,
	})

	last := models.NeverActive
	if !res.LastActivity.IsZero() {
		last = models.FormatTimestamp(res.LastActivity)
	}
	return models.BotStatus{
		ID:           ws.ID,
		Name:         ws.DisplayName(),
		Status:       res.State,
		Progress:     res.Progress,
		FilesCreated: files.Files,
		TotalFiles:   expected.Total,
		LastActivity: last,
		CurrentTask:  status.CurrentTask(res.Progress),
		Errors:       []string{},
		Metrics: models.BotMetrics{
			LinesOfCode: files.Lines,
			Commits:     c.commits.CommitCount(ctx, ws.Path),
		},
	}
}

// Reported computes the reported status of every workstream.
func (c *Collector) Reported(ctx context.Context) models.RealStatusResponse {
	now := c.now()
	d := c.deriver(now)
	bots := fanOut(c.manifest.Workstreams, func(ws *models.Workstream) models.RealBotStatus {
		return c.reportedStatus(ctx, d, ws, now)
	})
	progress := make([]int, len(bots))
	for i, b := range bots {
		progress[i] = b.Progress
	}
	return models.RealStatusResponse{
		Bots:          bots,
		LastUpdated:   models.FormatTimestamp(now),
		TotalProgress: status.Round(status.AverageProgress(progress)),
	}
}

func (c *Collector) reportedStatus(ctx context.Context, d *status.Deriver, ws *models.Workstream, now time.Time) models.RealBotStatus {
	running := c.liveness(ws).Running(ctx)
	recent := activity.ReadRecent(ws.ActivityLogPath(), RecentActivities)
	if recent == nil {
		recent = []models.Activity{}
	}
	reported := activity.ReadStatusFile(ws.StatusFilePath())[ws.ID]

	ev := status.ReportedEvidence{Running: running, Metrics: reported.Metrics}
	if len(recent) > 0 {
		ev.LastActivity, ev.HasActivity = recent[len(recent)-1].Time()
	}
	res := d.Derive(ev)

	stamp := models.FormatTimestamp(now)
	lastActivity, sessionStart := reported.LastActivity, reported.SessionStart
	if lastActivity == "" {
		lastActivity = stamp
	}
	if sessionStart == "" {
		sessionStart = stamp
	}
	return models.RealBotStatus{
		ID:               ws.ID,
		Name:             ws.DisplayName(),
		Status:           res.State,
		LastActivity:     lastActivity,
		SessionStart:     sessionStart,
		Metrics:          reported.Metrics,
		RecentActivities: recent,
		Progress:         res.Progress,
		IsProcessRunning: running,
	}
}

// Activity returns up to limit of the newest activity records of a
// workstream, all of them when limit <= 0.
func (c *Collector) Activity(id string, limit int) ([]models.Activity, bool) {
	ws, ok := c.manifest.Find(id)
	if !ok {
		return nil, false
	}
	records := activity.ReadRecent(ws.ActivityLogPath(), limit)
	if records == nil {
		records = []models.Activity{}
	}
	return records, true
}
