package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pb33f/pfesim/config"
	"github.com/pb33f/pfesim/motor"
	"github.com/pb33f/pfesim/motor/model"
	"github.com/pb33f/pfesim/report"
	"github.com/spf13/cobra"
)

var (
	simConfigFile string
	simOutputFile string
	simWorkers    int
	simRunID      string
	simPretty     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scenario and store the aggregated result",
	Long: `Simulate every session of a scenario file with every configured method on
every configured network model, aggregate the totals, costs and histograms
and write the result as JSON.

Examples:
  pfesim simulate -c scenario.yaml -o result.json
  pfesim simulate -c scenario.yaml -o result.json --workers 4 --pretty`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&simConfigFile, "config", "c", "", "Scenario file (YAML)")
	simulateCmd.Flags().StringVarP(&simOutputFile, "output", "o", "result.json", "Result file path")
	simulateCmd.Flags().IntVarP(&simWorkers, "workers", "w", 0, "Worker count, overrides the scenario (0 = keep)")
	simulateCmd.Flags().StringVar(&simRunID, "run-id", "", "Run id stored in the result (default: random)")
	simulateCmd.Flags().BoolVar(&simPretty, "pretty", false, "Print a summary table when done")
	_ = simulateCmd.MarkFlagRequired("config")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	result, err := simulate(cmd.Context(), simConfigFile, simWorkers, simRunID, logger)
	if err != nil {
		return err
	}

	if err := result.WriteFile(simOutputFile); err != nil {
		return err
	}
	logger.Info("result written", "file", simOutputFile, "run_id", result.RunID)

	if simPretty {
		fmt.Fprintln(cmd.OutOrStdout(), report.Table(result))
	}
	return nil
}

// simulate loads a scenario, runs it and analyses the sequences
func simulate(ctx context.Context, path string, workers int, runID string, logger *slog.Logger) (*model.AnalysisResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	file, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if workers > 0 {
		file.Workers = workers
	}

	plan, err := file.Build(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario: %w", err)
	}
	plan.Analyzer.RunID = runID

	logger.Info("scenario loaded",
		"file", path,
		"methods", len(plan.Scenario.Methods),
		"networks", len(plan.Scenario.Networks),
		"sessions", len(plan.Scenario.Sessions),
		"workers", plan.Runner.WorkerCount)

	runner := motor.NewRunner(plan.Runner)
	results, err := runner.Run(ctx, plan.Scenario)
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	stats := runner.Stats()
	logger.Debug("runner stats",
		"batches", stats.BatchesCompleted,
		"sessions", stats.SessionsSimulated,
		"graphs", stats.GraphsSimulated,
		"sequences", stats.SequencesRecorded,
		"duration", stats.RunDuration)

	result, err := motor.NewAnalyzer(plan.Analyzer).Analyze(results, plan.Scenario.Labels())
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	result.CreatedAt = time.Now().UTC()
	return result, nil
}
