// Package buildinfo holds version information injected at build time via
// -ldflags "-X github.com/botboard-io/botboard/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Summary returns "<version> (<commit>, <date>)".
func Summary() string {
	return fmt.Sprintf("%s (%s, %s)", Version, CommitHash, BuildDate)
}
