package cmd

import (
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <result-file>",
	Short: "Open a stored result in the terminal UI viewer",
	Long: `Launch an interactive terminal user interface to browse a result written by
'simulate'. Every method and network model is a row; open a row to see its
totals, per page view histograms and the raw record.`,
	Args: cobra.ExactArgs(1),
	Example: `  pfesim view result.json
  pfesim view result.json -v`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	resultFile := args[0]

	if err := ValidateResultFile(resultFile); err != nil {
		return err
	}

	GetLogger().Debug("launching terminal UI", "result_file", resultFile)
	return LaunchTUI(resultFile)
}
