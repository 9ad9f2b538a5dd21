package status

import (
	"time"

	"github.com/botboard-io/botboard/internal/models"
)

// Variant names a status model. The two variants use different state sets
// and progress formulas; neither is authoritative.
type Variant string

// Variants
const (
	// VariantFiles: expected-file ratio, states active/idle/completed.
	VariantFiles Variant = "files"
	// VariantReported: bot-reported counters and activity log, states
	// active/idle/inactive/error.
	VariantReported Variant = "reported"
)

// Evidence is one source of signals about a bot.
type Evidence interface {
	Variant() Variant
}

// FileEvidence is gathered from the workstream tree.
type FileEvidence struct {
	Running      bool
	LastModified time.Time // zero when the tree does not exist
	Progress     int       // expected-file percentage
}

// Variant implements Evidence.
func (FileEvidence) Variant() Variant { return VariantFiles }

// ReportedEvidence is gathered from what the bot writes about itself.
type ReportedEvidence struct {
	Running      bool
	Metrics      models.ReportedMetrics
	LastActivity time.Time // timestamp of the newest logged activity
	HasActivity  bool
}

// Variant implements Evidence.
func (ReportedEvidence) Variant() Variant { return VariantReported }

// Result is a derived status.
type Result struct {
	State    models.BotState
	Progress int
	// LastActivity is the effective last activity. A running bot's is now.
	LastActivity time.Time
}

// Deriver classifies evidence. It keeps no state between calls.
type Deriver struct {
	Thresholds Thresholds
	Now        func() time.Time
}

// NewDeriver returns a Deriver using the wall clock.
func NewDeriver(t Thresholds) *Deriver {
	return &Deriver{Thresholds: t, Now: time.Now}
}

func (d *Deriver) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Derive classifies ev.
func (d *Deriver) Derive(ev Evidence) Result {
	switch e := ev.(type) {
	case FileEvidence:
		return d.files(e)
	case *FileEvidence:
		return d.files(*e)
	case ReportedEvidence:
		return d.reported(e)
	case *ReportedEvidence:
		return d.reported(*e)
	default:
		return Result{State: models.StateIdle}
	}
}

func (d *Deriver) files(e FileEvidence) Result {
	now := d.now()
	r := Result{Progress: clampPercent(e.Progress), LastActivity: e.LastModified}
	switch {
	case e.Running:
		r.State = models.StateActive
		r.LastActivity = now
	case !e.LastModified.IsZero() && now.Sub(e.LastModified) < d.Thresholds.ActiveWindow:
		r.State = models.StateActive
	case r.Progress >= 100:
		r.State = models.StateCompleted
	default:
		r.State = models.StateIdle
	}
	return r
}

func (d *Deriver) reported(e ReportedEvidence) Result {
	now := d.now()
	r := Result{
		Progress:     clampPercent(e.Metrics.Actions() * d.Thresholds.ProgressPerAction),
		LastActivity: e.LastActivity,
	}
	switch {
	case e.Metrics.ErrorsEncountered > d.Thresholds.ErrorLimit:
		r.State = models.StateError
	case e.Running:
		r.State = models.StateActive
	case e.HasActivity:
		age := now.Sub(e.LastActivity)
		switch {
		case age < d.Thresholds.ActiveWindow:
			r.State = models.StateActive
		case age < d.Thresholds.IdleWindow:
			r.State = models.StateIdle
		default:
			r.State = models.StateInactive
		}
	default:
		r.State = models.StateInactive
	}
	return r
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
