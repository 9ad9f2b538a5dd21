// Package liveness decides whether a workstream's bot process is running.
package liveness

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/models"
)

// Checker reports whether a bot is currently running. Implementations
// treat every failure as "not running".
type Checker interface {
	Running(ctx context.Context) bool
}

// Never is a Checker that always reports not running.
type Never struct{}

// Running implements Checker.
func (Never) Running(context.Context) bool { return false }

// PIDFile checks a PID recorded in a file with signal 0.
type PIDFile struct {
	Path string
}

// Running implements Checker.
func (p PIDFile) Running(context.Context) bool {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false
	}
	return config.ProcessAlive(pid)
}

// Heartbeat treats a bot as running while a file it touches is fresh.
type Heartbeat struct {
	Path   string
	MaxAge time.Duration
	Now    func() time.Time
}

// DefaultHeartbeatAge is used when a heartbeat probe sets no max_age.
const DefaultHeartbeatAge = time.Minute

// Running implements Checker.
func (h Heartbeat) Running(context.Context) bool {
	info, err := os.Stat(h.Path)
	if err != nil {
		return false
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	maxAge := h.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultHeartbeatAge
	}
	return now().Sub(info.ModTime()) <= maxAge
}

// FromWorkstream builds the Checker configured for ws.
func FromWorkstream(ws *models.Workstream, procs ProcessLister) Checker {
	probe := ws.Liveness
	switch probe.Kind {
	case models.LivenessNone:
		return Never{}
	case models.LivenessPIDFile:
		path := probe.Path
		if path == "" {
			var err error
			if path, err = config.PIDFile(ws.ID); err != nil {
				return Never{}
			}
		}
		return PIDFile{Path: path}
	case models.LivenessHeartbeat:
		maxAge, err := time.ParseDuration(probe.MaxAge)
		if err != nil {
			maxAge = DefaultHeartbeatAge
		}
		return Heartbeat{Path: probe.Path, MaxAge: maxAge}
	default:
		return ProcessTable{Pattern: ws.ProcessPattern(), Lister: procs}
	}
}
