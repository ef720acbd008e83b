package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	Logger  *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "pfesim [result-file]",
		Short: "Simulate and compare font delivery strategies",
		Long: `pfesim simulates how long pages take to load their fonts under different
delivery strategies. Each strategy turns a sequence of page views into request
graphs, the graphs are replayed against a set of network models and the
results are aggregated into costs, totals and per page view histograms.

Run a scenario with 'simulate', inspect the stored result with 'summarize' or
browse it in the terminal UI by passing the result file.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  pfesim simulate -c scenario.yaml -o result.json
  pfesim summarize -i result.json cost_summary
  pfesim result.json`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger()
		},
		RunE: runPfesim,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// will be reconfigured in PersistentPreRun based on flags
	setupLogger()
}

func runPfesim(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), RenderBanner())
		return cmd.Help()
	}

	resultFile := args[0]
	if err := ValidateResultFile(resultFile); err != nil {
		return fmt.Errorf("invalid result file: %w", err)
	}

	if err := LaunchTUI(resultFile); err != nil {
		return fmt.Errorf("failed to launch TUI: %w", err)
	}
	return nil
}

// setupLogger configures the global slog logger based on the verbose flag
func setupLogger() {
	var opts *slog.HandlerOptions

	if verbose {
		opts = &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}
	} else {
		opts = &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	if verbose {
		Logger.Debug("verbose logging enabled",
			"level", slog.LevelDebug.String(),
			"pid", os.Getpid())
	}
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	if Logger == nil {
		setupLogger()
	}
	return Logger
}

// ValidateResultFile checks that a stored result exists and is not a directory
func ValidateResultFile(resultFile string) error {
	if resultFile == "" {
		return fmt.Errorf("result file path is required")
	}

	info, err := os.Stat(resultFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("result file does not exist: %s", resultFile)
		}
		return fmt.Errorf("error accessing result file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("provided path is a directory, not a file: %s", resultFile)
	}

	return nil
}
