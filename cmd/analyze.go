package cmd

import (
	"github.com/spf13/cobra"
)

var (
	anaFlags      analysisFlags
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the 4/5ths rule and chi-square test on a CSV/TSV/XLSX file",
	Long: `Groups rows by the demographic column, computes selection rates and adverse impact ratios
against the reference group, and tests the selection table with chi-square.

Binary mode counts a row as selected when its decision value is one of --selected.
Score-threshold mode counts a row as selected when its score is >= each --cut; one
result is produced per cut score.`,
	Example: `  adimpact analyze hiring.csv -g Gender -d Decision -s Hired
  adimpact analyze scores.xlsx -g Sex -d Score -m score-threshold --cut "75; 80" -f html -o report.html
  adimpact analyze hiring.csv --guess`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := anaFlags.outputFormat(cmd)
		if err != nil {
			return err
		}
		_, out, err := anaFlags.analyzeFile(cmd, args[0], format)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), out, outputOptions{OutputPath: anaOutputPath})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd.Flags())
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
}
