package cmd

import (
	"fmt"

	"github.com/pb33f/pfesim/hargen"
	"github.com/spf13/cobra"
)

var (
	genPageCount    int
	genOutputFile   string
	genSeed         int64
	genDictPath     string
	genMaxFamilies  int
	genSubsetChance float64
	genHost         string
	genFontHost     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate HAR captures of pages loading web fonts",
	Long: `Generate HAR (HTTP Archive) captures of page views that load a stylesheet
and the font subsets it references. The captures can be replayed by a 'har'
method in a scenario file.

Examples:
  pfesim generate -n 100 -o capture.har
  pfesim generate -n 20 --seed 42 --max-families 3 --subset-chance 0.5`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	d := hargen.DefaultGenerateOptions
	generateCmd.Flags().IntVarP(&genPageCount, "pages", "n", d.PageCount, "Number of page views to generate")
	generateCmd.Flags().StringVarP(&genOutputFile, "output", "o", "", "Output file path (default: a temporary hargen-*.har file)")
	generateCmd.Flags().Int64VarP(&genSeed, "seed", "s", d.Seed, "Random seed for reproducibility (0 = use current time)")
	generateCmd.Flags().StringVarP(&genDictPath, "dict", "d", d.DictionaryPath, "Dictionary file used for family names")
	generateCmd.Flags().IntVar(&genMaxFamilies, "max-families", d.MaxFamilies, "Maximum font families per page")
	generateCmd.Flags().Float64Var(&genSubsetChance, "subset-chance", d.SubsetChance, "Chance a page needs each non latin subset")
	generateCmd.Flags().StringVar(&genHost, "host", d.Host, "Site host")
	generateCmd.Flags().StringVar(&genFontHost, "font-host", d.FontHost, "Font server host")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := hargen.DefaultGenerateOptions
	opts.PageCount = genPageCount
	opts.Seed = genSeed
	opts.DictionaryPath = genDictPath
	opts.MaxFamilies = genMaxFamilies
	opts.SubsetChance = genSubsetChance
	opts.Host = genHost
	opts.FontHost = genFontHost

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating HAR file with %d page views...\n", genPageCount)

	var result *hargen.GenerateResult
	var err error
	if genOutputFile != "" {
		result, err = hargen.GenerateToFile(genOutputFile, opts)
	} else {
		result, err = hargen.Generate(opts)
	}
	if err != nil {
		return fmt.Errorf("failed to generate HAR: %w", err)
	}

	fmt.Fprintf(out, "\n✓ Generated HAR file: %s\n", result.HARFilePath)
	fmt.Fprintf(out, "  Pages:        %d\n", result.TotalPages)
	fmt.Fprintf(out, "  Total entries: %d\n", result.TotalEntries)
	fmt.Fprintf(out, "  Font entries:  %d\n", result.FontEntries)
	return nil
}
