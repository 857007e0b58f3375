package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
	"github.com/KaramelBytes/adimpact-cli/internal/utils"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	abFlags   analysisFlags
	abOutDir  string
	abWorkers int
	abQuiet   bool
)

// reportInfix marks batch reports; matching inputs are skipped on re-runs.
const reportInfix = ".adverse-impact."

// batchItem is one input file and where its report goes.
type batchItem struct {
	input   string
	output  string
	results []analysis.Result
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with the same options",
	Long: `Runs analyze on every file matched by the arguments (globs allowed) and writes one
<name>.adverse-impact.<ext> report per file. Existing reports are not overwritten; a __N suffix
is added instead. Matched files that are themselves reports are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		format, err := abFlags.outputFormat(cmd)
		if err != nil {
			return err
		}
		if abOutDir != "" {
			if err := utils.EnsureDir(abOutDir); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
		}

		// Output names are assigned up front, in input order.
		taken := map[string]struct{}{}
		items := make([]*batchItem, len(files))
		for i, path := range files {
			dir := abOutDir
			if dir == "" {
				dir = filepath.Dir(path)
			}
			base := filepath.Base(path)
			stem := strings.TrimSuffix(base, filepath.Ext(base))
			if abFlags.sheetName != "" {
				stem += "__sheet-" + sheetSlug(abFlags.sheetName)
			}
			items[i] = &batchItem{input: path, output: utils.UniquePath(dir, stem, reportInfix+format.Extension(), taken)}
		}

		workers := currentConfig().BatchWorkers
		if cmd.Flags().Changed("workers") {
			workers = abWorkers
		}
		if workers < 1 {
			workers = 1
		}
		log := zerolog.Ctx(cmd.Context())
		log.Debug().Int("files", len(items)).Int("workers", workers).Msg("batch start")

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(workers)
		for _, it := range items {
			it := it
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				results, out, err := abFlags.analyzeFile(cmd, it.input, format)
				if err != nil {
					return err
				}
				if err := utils.SafeWriteFile(it.output, out); err != nil {
					return fmt.Errorf("write %s: %w", it.output, err)
				}
				it.results = results
				log.Info().Str("input", it.input).Str("output", it.output).Msg("batch file done")
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if !abQuiet {
			w := cmd.OutOrStdout()
			for i, it := range items {
				fmt.Fprintf(w, "[%d/%d] %s: %s\n", i+1, len(items), filepath.Base(it.input), batchSummary(it.results))
				fmt.Fprintf(w, "✓ Wrote report to %s\n", it.output)
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates, sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok || isReport(m) {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// isReport reports whether path is a report written by an earlier batch run.
func isReport(path string) bool {
	return strings.Contains(filepath.Base(path), reportInfix)
}

// batchSummary counts failing groups across the results of one file.
func batchSummary(results []analysis.Result) string {
	if len(results) == 0 {
		return "no results"
	}
	fails := 0
	for _, r := range results {
		for _, g := range r.Groups {
			if pass, ok := g.Passes(); ok && !pass {
				fails++
			}
		}
	}
	noun := "result"
	if len(results) != 1 {
		noun = "results"
	}
	return fmt.Sprintf("%d %s, %d group(s) below the 4/5ths boundary", len(results), noun, fails)
}

func sheetSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	ss := strings.Trim(b.String(), "-")
	if ss == "" {
		ss = "sheet"
	}
	return ss
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd.Flags())
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for reports (default: next to each input)")
	analyzeBatchCmd.Flags().IntVar(&abWorkers, "workers", 0, "files analyzed concurrently (default from batch_workers)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress the per-file summary")
}
