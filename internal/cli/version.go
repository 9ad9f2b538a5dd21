package cli

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/botboard-io/botboard/internal/buildinfo"
	"github.com/botboard-io/botboard/internal/config"
	"github.com/botboard-io/botboard/internal/updater"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%s %s\n", styleBrand.Render("Botboard"), styleVersion.Render(buildinfo.Version))
		fmt.Printf("  %s %s\n", styleLabel.Render("Commit: "), buildinfo.CommitHash)
		fmt.Printf("  %s %s\n", styleLabel.Render("Built:  "), buildinfo.BuildDate)
		fmt.Printf("  %s %s/%s\n", styleLabel.Render("OS/Arch:"), runtime.GOOS, runtime.GOARCH)
		fmt.Printf("  %s %s\n", styleLabel.Render("Go:     "), runtime.Version())

		if !versionCheck {
			return nil
		}
		return checkForUpdate(cmd.Context())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check for a newer release")
}

func checkForUpdate(ctx context.Context) error {
	result, err := updater.NewChecker().Check(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	if settings, err := config.LoadSettings(); err == nil {
		now := time.Now().UTC()
		settings.Updates.LastChecked = &now
		_ = config.SaveSettings(settings)
	}

	fmt.Println()
	if !result.Available {
		fmt.Println(styleSuccess.Render(fmt.Sprintf("Up to date (%s).", result.CurrentVersion)))
		return nil
	}
	fmt.Println(styleUpdate.Render(fmt.Sprintf("Update available: %s → %s", result.CurrentVersion, result.LatestVersion)))
	if result.ReleaseURL != "" {
		fmt.Printf("  %s %s\n", styleLabel.Render("Release:"), styleCommand.Render(result.ReleaseURL))
	}
	return nil
}
