package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/botboard-io/botboard/internal/models"
	"github.com/botboard-io/botboard/internal/scan"
)

var (
	scanExtensions []string
	scanSkipDirs   []string
	scanExpected   []string
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Count source files and lines in a directory",
	Long: `Scan a directory the way the status collector scans a workstream:
hidden and skipped directories are ignored and only files with the given
extensions are counted. --expected reports how many of the listed relative
paths exist.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanExtensions, "ext", models.DefaultExtensions(), "file extensions to count")
	scanCmd.Flags().StringSliceVar(&scanSkipDirs, "skip", models.DefaultSkipDirs(), "directory names to skip")
	scanCmd.Flags().StringSliceVar(&scanExpected, "expected", nil, "expected relative file paths")
}

func runScan(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	stats := scan.Scan(root, scan.Options{Extensions: scanExtensions, SkipDirs: scanSkipDirs})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Directory:"), styleValue.Render(root))
	fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Extensions:"), styleValue.Render(strings.Join(scanExtensions, ", ")))
	fmt.Fprintf(out, "%s %d\n", styleLabel.Render("Files:"), stats.Files)
	fmt.Fprintf(out, "%s %d\n", styleLabel.Render("Lines:"), stats.Lines)
	if mod := scan.RootModTime(root); !mod.IsZero() {
		fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Modified:"), mod.Local().Format("2006-01-02 15:04:05"))
	}

	if len(scanExpected) > 0 {
		p := scan.ExpectedProgress(root, scanExpected)
		fmt.Fprintf(out, "%s %d/%d (%d%%)\n", styleLabel.Render("Expected:"), p.Existing, p.Total, p.Percent)
	}
	return nil
}
