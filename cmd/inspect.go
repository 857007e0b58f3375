package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
	"github.com/KaramelBytes/adimpact-cli/internal/parser"
	"github.com/spf13/cobra"
)

// maxDecisionValues caps the distinct decision values listed.
const maxDecisionValues = 18

var (
	insGroupColumn    string
	insDecisionColumn string
	insSheetName      string
	insSheetIndex     int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show columns, guessed settings and distinct values of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ds, err := parser.ParseFile(path, parser.Options{SheetName: insSheetName, SheetIndex: insSheetIndex})
		if err != nil {
			return err
		}
		group := insGroupColumn
		if group == "" {
			group = analysis.GuessColumn(ds.Header, analysis.GroupKeywords)
		}
		decision := insDecisionColumn
		if decision == "" {
			decision = analysis.GuessColumn(ds.Header, analysis.DecisionKeywords)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "File: %s (%s)\n", ds.Name, parser.DecoderName(path))
		fmt.Fprintf(w, "Rows: %d\n", len(ds.Rows))
		fmt.Fprintf(w, "Columns: %s\n", strings.Join(ds.Header, ", "))
		fmt.Fprintf(w, "Group column: %s\n", orNone(group))
		fmt.Fprintf(w, "Decision column: %s\n", orNone(decision))
		if group != "" {
			fmt.Fprintf(w, "Groups: %s\n", orNone(strings.Join(analysis.DistinctSorted(ds.Values(group)), ", ")))
		}
		if decision != "" {
			values := ds.Values(decision)
			fmt.Fprintf(w, "Decision values: %s\n", orNone(strings.Join(analysis.DistinctFirstSeen(values, maxDecisionValues), ", ")))
			fmt.Fprintf(w, "Guessed selected values: %s\n", orNone(strings.Join(analysis.GuessSelectedValues(values), ", ")))
		}
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&insGroupColumn, "group-column", "g", "", "demographic column (default: guessed)")
	inspectCmd.Flags().StringVarP(&insDecisionColumn, "decision-column", "d", "", "decision column (default: guessed)")
	inspectCmd.Flags().StringVar(&insSheetName, "sheet-name", "", "XLSX: sheet name to read")
	inspectCmd.Flags().IntVar(&insSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
