package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/pb33f/pfesim/motor/model"
	"github.com/pb33f/pfesim/report"
	"github.com/spf13/cobra"
)

var (
	sumInputFile string
	sumPretty    bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [mode] [args...]",
	Short: "Print summaries of a stored result",
	Long: `Print comma separated summaries of a result written by 'simulate'. With
--pretty a table of every method and network is printed instead.

` + report.Usage,
	Example: `  pfesim summarize -i result.json cost_summary
  pfesim summarize -i result.json latency_distribution UnicodeRange mobile_slow
  cat result.json | pfesim summarize response_size_distribution PFE
  pfesim summarize -i result.json --pretty`,
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVarP(&sumInputFile, "input", "i", "-", "Result file (- reads stdin)")
	summarizeCmd.Flags().BoolVar(&sumPretty, "pretty", false, "Print a table instead of a summary mode")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	result, err := model.ReadFile(sumInputFile)
	if err != nil {
		return err
	}
	GetLogger().Debug("result loaded",
		"file", sumInputFile,
		"run_id", result.RunID,
		"methods", len(result.Results))

	return summarize(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, sumPretty, args)
}

func summarize(out, errOut io.Writer, result *model.AnalysisResult, pretty bool, args []string) error {
	if pretty {
		_, err := fmt.Fprintln(out, report.Table(result))
		return err
	}

	if len(args) == 0 {
		fmt.Fprintln(errOut, report.Usage)
		return fmt.Errorf("a summary mode is required: %w", report.ErrUsage)
	}

	err := report.Summarize(out, result, args[0], args[1:])
	if errors.Is(err, report.ErrUsage) {
		fmt.Fprintln(errOut, report.Usage)
	}
	return err
}
