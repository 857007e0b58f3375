package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
	"github.com/KaramelBytes/adimpact-cli/internal/parser"
	"github.com/KaramelBytes/adimpact-cli/internal/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	sugColumn     string
	sugSheetName  string
	sugSheetIndex int
	sugAdvisor    advisorFlags
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <file>",
	Short: "Suggest cut scores from the distribution of a score column",
	Long: `Proposes the mean and mean ±1 and ±2 standard deviations of the score column as cut scores.
With snap rounding (default) candidates are clamped to the observed range and snapped to the
step; with round they are only rounded to the step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ds, err := parser.ParseFile(path, parser.Options{SheetName: sugSheetName, SheetIndex: sugSheetIndex})
		if err != nil {
			return err
		}
		column := sugColumn
		if column == "" {
			column = currentConfig().DecisionColumn
		}
		if column == "" {
			column = analysis.GuessColumn(ds.Header, []string{"score"})
		}
		if column == "" {
			return &analysis.ConfigError{Field: "column", Reason: "please select the score column (--column)"}
		}
		if !ds.HasColumn(column) {
			return &analysis.ConfigError{Field: "column", Reason: fmt.Sprintf("%q is not in the header", column)}
		}
		step, rounding, err := sugAdvisor.settings(cmd)
		if err != nil {
			return err
		}
		s, err := analysis.AdviseCutScores(ds.Values(column), step, rounding)
		if err != nil {
			return fmt.Errorf("%s: %w", column, err)
		}
		zerolog.Ctx(cmd.Context()).Info().Str("column", column).Int("n", s.N).
			Float64("step", step).Str("rounding", string(rounding)).Msg("cut scores suggested")

		parts := make([]string, len(s.Scores))
		for i, v := range s.Scores {
			parts[i] = report.FormatCutScore(v)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Column: %s\n", column)
		fmt.Fprintf(w, "Scores analyzed: %d (mean %.2f, sd %.2f, min %s, max %s)\n",
			s.N, s.Mean, s.StdDev, report.FormatCutScore(s.Min), report.FormatCutScore(s.Max))
		fmt.Fprintf(w, "Suggested cut scores: %s\n", strings.Join(parts, "; "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringVarP(&sugColumn, "column", "c", "", "score column (default: decision_column, or a column named like 'score')")
	suggestCmd.Flags().StringVar(&sugSheetName, "sheet-name", "", "XLSX: sheet name to read")
	suggestCmd.Flags().IntVar(&sugSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	sugAdvisor.register(suggestCmd.Flags())
}
