package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
	"github.com/KaramelBytes/adimpact-cli/internal/parser"
	"github.com/KaramelBytes/adimpact-cli/internal/report"
	"github.com/KaramelBytes/adimpact-cli/internal/utils"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// analysisFlags are shared by analyze and analyze-batch. Unset flags fall back to config.
type analysisFlags struct {
	groupColumn    string
	decisionColumn string
	mode           string
	selected       []string
	reference      string
	cuts           []string
	autoCuts       bool
	guess          bool
	fourFifths     float64
	smallSampleMin int
	format         string
	sheetName      string
	sheetIndex     int
	advisor        advisorFlags
}

// advisorFlags control the cut-score advisor (suggest, --auto-cuts).
type advisorFlags struct {
	step     float64
	rounding string
}

func (f *analysisFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.groupColumn, "group-column", "g", "", "demographic column to group by")
	fs.StringVarP(&f.decisionColumn, "decision-column", "d", "", "decision or score column")
	fs.StringVarP(&f.mode, "mode", "m", "", "decision mode: binary | score-threshold")
	fs.StringSliceVarP(&f.selected, "selected", "s", nil, "decision values counted as selected (binary mode, repeatable)")
	fs.StringVarP(&f.reference, "reference", "r", "", "reference group label (default: highest selection rate)")
	fs.StringArrayVar(&f.cuts, "cut", nil, "cut score(s) for score-threshold mode, e.g. --cut 75 --cut '77.5; 80'")
	fs.BoolVar(&f.autoCuts, "auto-cuts", false, "score-threshold mode: use suggested cut scores when none are given")
	fs.BoolVar(&f.guess, "guess", false, "guess unset columns and selected values from the data")
	fs.Float64Var(&f.fourFifths, "four-fifths", 0, "adverse impact ratio pass boundary (default 0.8)")
	fs.IntVar(&f.smallSampleMin, "small-sample-min", 0, "flag groups smaller than this (default 30)")
	fs.StringVarP(&f.format, "format", "f", "", "report format: markdown | html | csv | json")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	f.advisor.register(fs)
}

func (a *advisorFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&a.step, "step", 0, "cut score step (default 2.5 for snap, 0.1 for round)")
	fs.StringVar(&a.rounding, "rounding", "", "cut score rounding: snap | round")
}

// settings resolves the advisor step and rounding from flags and config.
func (a *advisorFlags) settings(cmd *cobra.Command) (float64, analysis.Rounding, error) {
	c := currentConfig()
	name := c.CutRounding
	if cmd.Flags().Changed("rounding") {
		name = a.rounding
	}
	rounding, ok := analysis.ParseRounding(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return 0, "", &analysis.ConfigError{Field: "rounding", Reason: fmt.Sprintf("%q (use snap or round)", name)}
	}
	step := c.CutStep
	if cmd.Flags().Changed("step") {
		step = a.step
	} else if rounding == analysis.RoundingSimple && (step <= 0 || step == analysis.DefaultSnapStep) {
		step = analysis.DefaultRoundStep
	}
	if step <= 0 && !cmd.Flags().Changed("step") {
		step = analysis.DefaultSnapStep
	}
	return step, rounding, nil
}

func (f *analysisFlags) parserOptions() parser.Options {
	return parser.Options{SheetName: f.sheetName, SheetIndex: f.sheetIndex}
}

func (f *analysisFlags) outputFormat(cmd *cobra.Command) (report.Format, error) {
	name := currentConfig().OutputFormat
	if cmd.Flags().Changed("format") {
		name = f.format
	}
	return report.ParseFormat(name)
}

// options merges config and flags, then fills gaps from the dataset when guessing is enabled.
func (f *analysisFlags) options(cmd *cobra.Command, ds *parser.Dataset) (analysis.Options, error) {
	opt := currentConfig().AnalysisOptions()
	fl := cmd.Flags()
	if fl.Changed("group-column") {
		opt.GroupColumn = f.groupColumn
	}
	if fl.Changed("decision-column") {
		opt.DecisionColumn = f.decisionColumn
	}
	if fl.Changed("mode") {
		opt.Mode = analysis.DecisionMode(f.mode)
	}
	if fl.Changed("selected") {
		opt.SelectedValues = f.selected
	}
	if fl.Changed("reference") {
		opt.ReferenceGroup = f.reference
	}
	if fl.Changed("cut") {
		opt.Thresholds = analysis.ParseThresholds(strings.Join(f.cuts, ";"))
	}
	if fl.Changed("four-fifths") {
		opt.FourFifths = f.fourFifths
	}
	if fl.Changed("small-sample-min") {
		opt.SmallSampleMin = f.smallSampleMin
	}
	mode, ok := analysis.ParseMode(string(opt.Mode))
	if !ok {
		return opt, &analysis.ConfigError{Field: "decision mode", Reason: fmt.Sprintf("%q (use binary or score-threshold)", opt.Mode)}
	}
	opt.Mode = mode

	if f.guess {
		if strings.TrimSpace(opt.GroupColumn) == "" {
			opt.GroupColumn = analysis.GuessColumn(ds.Header, analysis.GroupKeywords)
		}
		if strings.TrimSpace(opt.DecisionColumn) == "" {
			opt.DecisionColumn = analysis.GuessColumn(ds.Header, analysis.DecisionKeywords)
		}
		if opt.Mode == analysis.ModeBinary && len(analysis.NormalizeSelectedValues(opt.SelectedValues)) == 0 && opt.DecisionColumn != "" {
			opt.SelectedValues = analysis.GuessSelectedValues(ds.Values(opt.DecisionColumn))
		}
	}
	if opt.Mode == analysis.ModeScoreThreshold && len(opt.Thresholds) == 0 && f.autoCuts && ds.HasColumn(opt.DecisionColumn) {
		step, rounding, err := f.advisor.settings(cmd)
		if err != nil {
			return opt, err
		}
		scores, err := analysis.SuggestCutScores(ds.Values(opt.DecisionColumn), step, rounding)
		if err != nil {
			return opt, fmt.Errorf("suggest cut scores for %s: %w", opt.DecisionColumn, err)
		}
		opt.Thresholds = scores
	}
	return opt, nil
}

// analyzeFile runs the full pipeline for one input file and renders it.
func (f *analysisFlags) analyzeFile(cmd *cobra.Command, path string, format report.Format) ([]analysis.Result, []byte, error) {
	log := zerolog.Ctx(cmd.Context())
	ds, err := parser.ParseFile(path, f.parserOptions())
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("path", path).Str("decoder", parser.DecoderName(path)).
		Int("rows", len(ds.Rows)).Int("columns", len(ds.Header)).Msg("decoded")

	opt, err := f.options(cmd, ds)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("group_column", opt.GroupColumn).Str("decision_column", opt.DecisionColumn).
		Str("mode", string(opt.Mode)).Strs("selected", opt.SelectedValues).Floats64("cuts", opt.Thresholds).
		Str("reference", opt.ReferenceGroup).Msg("options resolved")

	results, err := analysis.Run(ds, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, r := range results {
		ev := log.Info().Str("path", path).Int("groups", len(r.Groups)).Int("rows_used", r.RowsUsed).Float64("chi2", r.Chi2)
		if r.HasCutScore() {
			ev = ev.Float64("cut", r.CutScore)
		}
		ev.Msg("result")
	}
	out, err := report.Render(format, results)
	if err != nil {
		return nil, nil, err
	}
	return results, out, nil
}

type outputOptions struct {
	OutputPath string
	Quiet      bool
}

// writeReport prints content to w, or writes it to OutputPath and confirms on w.
func writeReport(w io.Writer, content []byte, opts outputOptions) error {
	if opts.OutputPath == "" {
		if _, err := w.Write(content); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if len(content) > 0 && content[len(content)-1] != '\n' {
			fmt.Fprintln(w)
		}
		return nil
	}
	if err := utils.SafeWriteFile(opts.OutputPath, content); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if !opts.Quiet {
		fmt.Fprintf(w, "✓ Wrote report to %s\n", opts.OutputPath)
	}
	return nil
}
