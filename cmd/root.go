// Package cmd implements the CLI commands for coursepipe using Cobra.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gaurav-prasanna/coursepipe/core/extract"
	"github.com/gaurav-prasanna/coursepipe/core/fetch"
	"github.com/gaurav-prasanna/coursepipe/crawl"
	"github.com/gaurav-prasanna/coursepipe/log"
)

// Flag variables shared by every command.
var (
	flagLogLevel   string
	flagLogFile    string
	flagBaseURL    string
	flagUser       string
	flagRate       float64
	flagTimeout    time.Duration
	flagRetries    int
	flagStudyURL   string
	flagMaxStudy   int
	flagMaxDepth   int
	flagCycleGuard bool
)

var (
	logger    = zap.NewNop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "coursepipe",
	Short: "coursepipe: collect task files and course materials from the study catalog",
	Long: `coursepipe signs in to the study catalog, walks every study plan and course,
and collects the files submitted to course tasks together with the course materials.

Usage:
  coursepipe download --output ./wis [flags]
  coursepipe list --json [flags]

Every flag can also be set through a COURSEPIPE_<FLAG> environment variable,
e.g. COURSEPIPE_USER. The password is read from COURSEPIPE_PASSWORD or prompted for.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	def := fetch.DefaultOptions()
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFile, "log-file", "", "Also write JSON logs to this file (rotated)")

	pf.StringVar(&flagBaseURL, "base-url", def.BaseURL, "Catalog base URL that relative links resolve against")
	pf.StringVar(&flagUser, "user", "", "Login name (prompted for when empty)")
	pf.Float64Var(&flagRate, "rate", def.RequestsPerSecond, "Maximum requests per second (0 = unlimited)")
	pf.DurationVar(&flagTimeout, "timeout", def.Timeout, "Timeout of a single request")
	pf.IntVar(&flagRetries, "retries", def.Retries, "Retries for network errors and 5xx responses")

	pf.StringVar(&flagStudyURL, "study-url", "study-a.php?id=%d", "Study plan link; %d is the study number")
	pf.IntVar(&flagMaxStudy, "max-study", 5, "Highest study number to explore")
	pf.IntVar(&flagMaxDepth, "max-depth", 0, "Maximum materials folder nesting (0 = unlimited)")
	pf.BoolVar(&flagCycleGuard, "cycle-guard", false, "Skip materials folders already visited in the same listing")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	flushLogs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// flushLogs syncs the logger and closes the log file. It runs whether or
// not the command failed.
func flushLogs() {
	_ = logger.Sync()
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

// setup applies environment defaults and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := applyEnv(cmd.Flags()); err != nil {
		return err
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	plugins := []log.Plugin{log.NewStderrPlugin(level)}
	if flagLogFile != "" {
		plugin, closer := log.NewFilePlugin(flagLogFile, zapcore.DebugLevel)
		plugins = append(plugins, plugin)
		logCloser = closer
	}
	logger = log.NewLogger(plugins...)
	return nil
}

func fetchOptions() fetch.Options {
	opts := fetch.DefaultOptions()
	opts.BaseURL = flagBaseURL
	opts.Username = flagUser
	opts.RequestsPerSecond = flagRate
	opts.Timeout = flagTimeout
	opts.Retries = flagRetries
	return opts
}

func explorerOptions() []crawl.Option {
	resolve := []extract.Option{extract.WithMaxDepth(flagMaxDepth)}
	if flagCycleGuard {
		resolve = append(resolve, extract.WithCycleGuard())
	}
	return []crawl.Option{
		crawl.WithLogger(logger.Named("crawl")),
		crawl.WithStudyURL(flagStudyURL),
		crawl.WithMaxStudy(flagMaxStudy),
		crawl.WithResolverOptions(resolve...),
	}
}
