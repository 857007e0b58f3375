package cmd

import (
	"github.com/spf13/cobra"
)

// sampleCSV is a small hiring dataset for trying the tool.
const sampleCSV = `CandidateEmail,Demographic,Decision
cora@example.com,Female,Hired
matt@example.com,Male,Not Selected
sasha@example.com,Female,Hired
li@example.com,Male,Hired
jules@example.com,Nonbinary,Not Selected
riley@example.com,Female,Hired
omar@example.com,Male,Not Selected
`

var sampleOutputPath string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print or write a sample hiring CSV",
	Example: `  adimpact sample -o sample.csv
  adimpact analyze sample.csv -g Demographic -d Decision -s Hired`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeReport(cmd.OutOrStdout(), []byte(sampleCSV), outputOptions{OutputPath: sampleOutputPath})
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().StringVarP(&sampleOutputPath, "output", "o", "", "path to write the sample CSV")
}
