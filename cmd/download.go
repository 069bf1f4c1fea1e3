// Package cmd: download command.
// Walks the whole catalog and stores every task file and materials entry
// under the output directory.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/coursepipe/core/output"
	"github.com/gaurav-prasanna/coursepipe/crawl"
)

var (
	flagOutputDir string
	flagForce     bool
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download task files and course materials",
	Long: `Download signs in, walks every study plan and course, and stores the files as

  <output>/<course>/<task>/<year>/<file>
  <output>/<course>/<materials folder>/<path>

Examples:
  coursepipe download --user xlogin00 --output ./wis
  COURSEPIPE_PASSWORD=... coursepipe download --output ./wis --max-study 3`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&flagOutputDir, "output", "o", "", "Output directory (must not exist yet)")
	downloadCmd.Flags().BoolVar(&flagForce, "force", false, "Write into an existing output directory")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if flagOutputDir == "" {
		return fmt.Errorf("--output is required")
	}
	logger.Info("starting the project downloader")

	// Sign in first so a failed login leaves no empty output directory behind.
	f, err := connect(ctx)
	if err != nil {
		return err
	}

	writer, err := output.New(flagOutputDir, flagForce)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	opts := append(explorerOptions(), crawl.WithDownloader(f, writer))
	stats, err := crawl.NewExplorer(f, opts...).Run(ctx)
	logSummary(stats)
	return err
}

func logSummary(stats crawl.Stats) {
	failures := multierr.Errors(stats.Err)
	logger.Info("done",
		zap.Int("studies", stats.Studies),
		zap.Int("courses", stats.Courses),
		zap.Int("files", stats.Files),
		zap.Int64("bytes", stats.Bytes),
		zap.Int("skipped", len(failures)))
}
