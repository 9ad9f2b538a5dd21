// Package cli implements the botboard CLI commands.
package cli

import (
	"context"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/botboard-io/botboard/internal/buildinfo"
)

// addrFlag points commands at a specific daemon instead of the one recorded
// in daemon.yaml.
var addrFlag string

var rootCmd = &cobra.Command{
	Use:   "botboard",
	Short: "Track the progress of parallel development bots",
	Long: `Botboard reports progress for a set of development workstreams ("bots").
It scans each workstream's files, git history, activity log and process
table, and serves the result as JSON, a live stream and a terminal dashboard.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return fang.Execute(ctx, rootCmd,
		fang.WithVersion(buildinfo.Version),
		fang.WithColorSchemeFunc(fang.DefaultColorScheme),
	)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addrFlag, "addr", "", "daemon address (host:port); defaults to the running daemon or a local scan")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(workstreamsCmd)
}
