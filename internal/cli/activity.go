package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/botboard-io/botboard/internal/client"
)

var (
	activityLimit int
	activityJSON  bool
)

var activityCmd = &cobra.Command{
	Use:   "activity <bot>",
	Short: "Show the latest activity log entries of a bot",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivity,
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "number of entries (0 for all)")
	activityCmd.Flags().BoolVar(&activityJSON, "json", false, "print the raw JSON response")
}

func runActivity(cmd *cobra.Command, args []string) error {
	src, err := client.Resolve(addrFlag)
	if err != nil {
		return err
	}

	records, err := src.Activity(cmd.Context(), args[0], activityLimit)
	if err != nil {
		return err
	}

	if activityJSON {
		return printJSON(cmd.OutOrStdout(), records)
	}
	renderActivities(cmd.OutOrStdout(), records, time.Now())
	return nil
}
