// Package cli defines the command-line interface for pygrade.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pygrade/internal/core/app"
	"pygrade/internal/core/config"
	"pygrade/internal/core/ports"
	"pygrade/internal/data/history"
	"pygrade/internal/engine/parser"
	"pygrade/internal/shared/telemetry"
	"pygrade/internal/ui/report"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultConfigPath = "pygrade.toml"

var (
	flagConfig  string
	flagOutput  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "pygrade",
	Short:         "Grade Python source files for structural quality.",
	Long:          `pygrade parses a Python source file, extracts structural metrics, scores the file 0-100 and keeps a durable history of every run.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		configureLogging(flagVerbose)
		return telemetry.Init(cmd.Context(), "pygrade", version)
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		telemetry.Shutdown(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", defaultConfigPath, "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", report.FormatTable, "Output format: table, json or tsv")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		return 1
	}
	return 0
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information.",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("pygrade %s (commit %s, built %s)\n", version, commit, date)
	},
}

func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

// runtime bundles the wired components a command needs for one invocation.
type runtime struct {
	cfg      *config.Config
	store    ports.HistoryStore
	service  *app.Service
	renderer *report.Renderer
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	renderer, err := report.NewRenderer(os.Stdout, flagOutput)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		store:    store,
		service:  app.NewService(parser.NewParser(parser.NewGrammarLoader()), store),
		renderer: renderer,
	}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		slog.Warn("failed to close history store", "error", err)
	}
}

func openStore(cfg *config.Config) (ports.HistoryStore, error) {
	switch cfg.History.Backend {
	case config.BackendSQLite:
		return history.OpenSQLite(cfg.History.Path)
	default:
		return history.OpenFile(cfg.History.Path)
	}
}
