// Package gitlog queries workstream repositories.
package gitlog

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// Counter counts commits with the git binary.
type Counter struct {
	// Git is the git executable; empty means "git" from PATH.
	Git string
}

// CommitCount returns the number of commits reachable from HEAD in the
// repository containing dir, which may be an enclosing repository. A
// directory outside any repository, a repository without commits, or any git
// failure counts as 0.
func (c Counter) CommitCount(ctx context.Context, dir string) int {
	bin := c.Git
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, "rev-list", "--count", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// CommitCount counts commits using the default Counter.
func CommitCount(ctx context.Context, dir string) int {
	return Counter{}.CommitCount(ctx, dir)
}
