package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/botboard-io/botboard/internal/client"
)

var (
	statusReal bool
	statusJSON bool
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show the status of every bot",
	Long: `Show the status of every configured bot.

By default progress is estimated from expected files in each workstream.
With --real the activity logs are used instead, falling back to the file
estimate when the logs cannot be read.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusReal, "real", false, "use activity logs (falls back to file progress)")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the raw JSON response")
}

func runStatus(cmd *cobra.Command, args []string) error {
	src, err := client.Resolve(addrFlag)
	if err != nil {
		return err
	}

	board, err := client.Fetch(cmd.Context(), src, statusReal)
	if err != nil {
		return fmt.Errorf("failed to get bot status: %w", err)
	}

	out := cmd.OutOrStdout()
	if statusJSON {
		if board.Real != nil {
			return printJSON(out, board.Real)
		}
		return printJSON(out, board.Files)
	}
	renderBoard(out, board, src.Describe(), time.Now())
	return nil
}
