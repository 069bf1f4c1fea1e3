// Package cmd: list command.
// Runs the same walk as download without storing files and renders the
// listing as Markdown or JSON.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/render"
	"github.com/gaurav-prasanna/coursepipe/crawl"
)

var (
	flagJSON       bool
	flagMarkdown   bool
	flagOutputFile string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List downloadable files without downloading them",
	Long: `List walks the catalog like download does and prints every file it finds.

Examples:
  coursepipe list --user xlogin00
  coursepipe list --json --output-file listing.json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&flagJSON, "json", false, "Output a JSON manifest")
	listCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown tables (default)")
	listCmd.Flags().StringVar(&flagOutputFile, "output-file", "", "Write the listing to this file instead of stdout (extension added when missing)")
	listCmd.MarkFlagsMutuallyExclusive("json", "markdown")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	renderer := selectRenderer()

	f, err := connect(ctx)
	if err != nil {
		return err
	}

	var records []core.Record
	opts := append(explorerOptions(), crawl.WithSink(func(r core.Record) {
		records = append(records, r)
	}))
	stats, runErr := crawl.NewExplorer(f, opts...).Run(ctx)
	logSummary(stats)

	data, err := renderer.Render(records)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if flagOutputFile == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
		return runErr
	}
	if filepath.Ext(flagOutputFile) == "" {
		flagOutputFile += renderer.Extension()
	}
	if err := os.WriteFile(flagOutputFile, data, 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", flagOutputFile, err)
	}
	logger.Info("listing written", zap.String("path", flagOutputFile))
	return runErr
}

// selectRenderer creates the Renderer picked by the format flags.
func selectRenderer() core.Renderer {
	if flagJSON {
		return render.NewJSONRenderer()
	}
	return render.NewMarkdownRenderer()
}
