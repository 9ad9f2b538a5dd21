package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/botboard-io/botboard/internal/client"
	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/tui"
)

var (
	watchInterval time.Duration
	watchFiles    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live bot dashboard",
	Long: `Open the interactive terminal dashboard.

The dashboard polls the running daemon (or scans locally when none is
running) and starts on the activity-log view, falling back to file
progress when the logs cannot be read. Press v to switch views.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "refresh interval (default from settings, 5s)")
	watchCmd.Flags().BoolVar(&watchFiles, "files", false, "start on the file progress view")
}

func runWatch(cmd *cobra.Command, args []string) error {
	src, err := client.Resolve(addrFlag)
	if err != nil {
		return err
	}

	interval := watchInterval
	if interval <= 0 {
		if settings, err := config.LoadSettings(); err == nil && settings.UI.PollSeconds > 0 {
			interval = time.Duration(settings.UI.PollSeconds) * time.Second
		}
	}

	return tui.Run(src, tui.Options{Interval: interval, PreferReal: !watchFiles})
}
