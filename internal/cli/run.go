package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/daemon/runner"
)

var runCmd = &cobra.Command{
	Use:   "run <bot>",
	Short: "Launch a bot in the foreground",
	Long: `Launch the configured command of a workstream under a pseudo-terminal,
attached to this terminal. The bot's PID is written to ~/.botboard/run/<bot>.pid
for the duration of the run so pidfile liveness probes can see it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	m, err := config.LoadManifest()
	if err != nil {
		return err
	}
	ws, ok := m.Find(args[0])
	if !ok {
		return fmt.Errorf("unknown bot %q (configured: %v)", args[0], m.IDs())
	}
	if len(ws.Command) == 0 {
		return fmt.Errorf("workstream %s has no command configured", ws.ID)
	}

	if err := config.EnsureRunDir(); err != nil {
		return err
	}
	pidFile, err := config.PIDFile(ws.ID)
	if err != nil {
		return err
	}

	dir := ws.CommandDir
	if dir == "" {
		dir = ws.Path
	}

	proc, err := runner.Start(runner.Options{
		BotID:   ws.ID,
		Command: ws.Command,
		Dir:     dir,
		PIDFile: pidFile,
		Output:  os.Stdout,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, styleHint.Render(fmt.Sprintf("Started %s (PID %d)", ws.DisplayName(), proc.PID())))

	return runner.Attach(cmd.Context(), proc, os.Stdin)
}
