// Package status derives bot status labels and dashboard summaries from
// evidence gathered on disk and in the process table.
package status

import (
	"time"

	"github.com/botboard-io/botboard/internal/models"
)

// Thresholds are shared by every status variant.
type Thresholds struct {
	// ActiveWindow: evidence younger than this marks a bot active.
	ActiveWindow time.Duration
	// IdleWindow: reported activity younger than this marks a bot idle
	// rather than inactive.
	IdleWindow time.Duration
	// ErrorLimit: more reported errors than this marks a bot errored.
	ErrorLimit int
	// ProgressPerAction is the percentage credited per reported action.
	ProgressPerAction int
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ActiveWindow:      5 * time.Minute,
		IdleWindow:        15 * time.Minute,
		ErrorLimit:        5,
		ProgressPerAction: 2,
	}
}

// ThresholdsFromSettings converts the settings.yaml representation.
func ThresholdsFromSettings(c models.ThresholdsConfig) Thresholds {
	return Thresholds{
		ActiveWindow:      time.Duration(c.ActiveMinutes) * time.Minute,
		IdleWindow:        time.Duration(c.IdleMinutes) * time.Minute,
		ErrorLimit:        c.ErrorLimit,
		ProgressPerAction: c.ProgressPerAction,
	}
}
