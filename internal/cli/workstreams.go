package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/models"
)

var workstreamsCmd = &cobra.Command{
	Use:     "workstreams",
	Aliases: []string{"ws"},
	Short:   "Manage the workstream manifest",
}

var workstreamsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured workstreams",
	Args:  cobra.NoArgs,
	RunE:  runWorkstreamsList,
}

var (
	initBase  string
	initForce bool
)

var workstreamsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default four-workstream manifest",
	Long: `Write ~/.botboard/workstreams.yaml with the backend, dashboard, mobile and
devops workstreams rooted under --base. Edit the file afterwards to change
paths, expected files or liveness probes.`,
	Args: cobra.NoArgs,
	RunE: runWorkstreamsInit,
}

func init() {
	workstreamsInitCmd.Flags().StringVar(&initBase, "base", ".", "directory containing the workstream trees")
	workstreamsInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing manifest")

	workstreamsCmd.AddCommand(workstreamsInitCmd)
	workstreamsCmd.AddCommand(workstreamsListCmd)
}

func runWorkstreamsList(cmd *cobra.Command, args []string) error {
	m, err := config.LoadManifest()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(m.Workstreams) == 0 {
		fmt.Fprintln(out, styleHint.Render("Manifest has no workstreams."))
		return nil
	}

	idStyle := lipgloss.NewStyle().Bold(true).Width(12)
	for i := range m.Workstreams {
		ws := &m.Workstreams[i]
		fmt.Fprintf(out, "%s%s\n", idStyle.Render(ws.ID), styleValue.Render(ws.DisplayName()))
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("path:    "), ws.Path)
		fmt.Fprintf(out, "  %s %d expected, extensions %s\n", styleLabel.Render("files:   "), len(ws.ExpectedFiles), strings.Join(ws.Extensions, ","))
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("liveness:"), describeLiveness(ws))
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("logs:    "), ws.ActivityLogPath())
	}
	return nil
}

func describeLiveness(ws *models.Workstream) string {
	switch ws.Liveness.Kind {
	case models.LivenessProcess:
		return fmt.Sprintf("process matching %q", ws.ProcessPattern())
	case models.LivenessPIDFile:
		if ws.Liveness.Path != "" {
			return "pid file " + ws.Liveness.Path
		}
		return "pid file (botboard run)"
	case models.LivenessHeartbeat:
		return "heartbeat " + ws.Liveness.Path
	default:
		return string(ws.Liveness.Kind)
	}
}

func runWorkstreamsInit(cmd *cobra.Command, args []string) error {
	path, err := config.GlobalWorkstreamsFile()
	if err != nil {
		return err
	}
	if config.FileExists(path) && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	base, err := filepath.Abs(initBase)
	if err != nil {
		return err
	}
	m := models.NewDefaultManifest(base)
	if err := config.SaveManifest(m); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render(fmt.Sprintf("Wrote %d workstreams to %s", len(m.Workstreams), path)))
	return nil
}
