package liveness

import (
	"context"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessLister returns the command lines of live processes.
type ProcessLister interface {
	CommandLines(ctx context.Context) ([]string, error)
}

// SystemProcesses lists processes from the OS process table.
type SystemProcesses struct{}

// CommandLines implements ProcessLister. The calling process is left out so
// a pattern given on our own command line never matches itself.
func (SystemProcesses) CommandLines(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	self := int32(os.Getpid())
	lines := make([]string, 0, len(procs))
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			continue
		}
		lines = append(lines, cmdline)
	}
	return lines, nil
}

// ProcessTable matches a substring against every live command line.
type ProcessTable struct {
	Pattern string
	Lister  ProcessLister
}

// Running implements Checker.
func (p ProcessTable) Running(ctx context.Context) bool {
	if p.Pattern == "" {
		return false
	}
	lister := p.Lister
	if lister == nil {
		lister = SystemProcesses{}
	}
	lines, err := lister.CommandLines(ctx)
	if err != nil {
		return false
	}
	for _, line := range lines {
		if strings.Contains(line, p.Pattern) {
			return true
		}
	}
	return false
}
