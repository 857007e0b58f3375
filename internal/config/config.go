package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/KaramelBytes/adimpact-cli/internal/analysis"
	"github.com/KaramelBytes/adimpact-cli/internal/logging"
	"github.com/KaramelBytes/adimpact-cli/internal/report"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every key when read from the environment (ADIMPACT_GROUP_COLUMN).
const EnvPrefix = "ADIMPACT"

// Global configuration structure.
type Global struct {
	GroupColumn    string    `mapstructure:"group_column" yaml:"group_column"`
	DecisionColumn string    `mapstructure:"decision_column" yaml:"decision_column"`
	DecisionMode   string    `mapstructure:"decision_mode" yaml:"decision_mode"`
	SelectedValues []string  `mapstructure:"selected_values" yaml:"selected_values"`
	CutScores      []float64 `mapstructure:"cut_scores" yaml:"cut_scores"`
	ReferenceGroup string    `mapstructure:"reference_group" yaml:"reference_group"`

	// Cut-score advisor
	CutStep     float64 `mapstructure:"cut_step" yaml:"cut_step"`
	CutRounding string  `mapstructure:"cut_rounding" yaml:"cut_rounding"`

	// Screening thresholds
	FourFifths     float64 `mapstructure:"four_fifths" yaml:"four_fifths"`
	SmallSampleMin int     `mapstructure:"small_sample_min" yaml:"small_sample_min"`

	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	BatchWorkers int    `mapstructure:"batch_workers" yaml:"batch_workers"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"group_column", "decision_column", "decision_mode", "selected_values", "cut_scores",
	"reference_group", "cut_step", "cut_rounding", "four_fifths", "small_sample_min",
	"output_format", "log_level", "batch_workers",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("group_column", "")
	v.SetDefault("decision_column", "")
	v.SetDefault("decision_mode", string(analysis.ModeBinary))
	v.SetDefault("selected_values", []string{})
	v.SetDefault("cut_scores", []float64{})
	v.SetDefault("reference_group", "")
	v.SetDefault("cut_step", analysis.DefaultSnapStep)
	v.SetDefault("cut_rounding", string(analysis.RoundingSnap))
	v.SetDefault("four_fifths", 0.8)
	v.SetDefault("small_sample_min", 30)
	v.SetDefault("output_format", string(report.FormatMarkdown))
	v.SetDefault("log_level", "warn")
	v.SetDefault("batch_workers", 4)
}

// Dir is ~/.adimpact.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".adimpact"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.adimpact/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// cutScoresHook decodes string cut scores ("75;80" or "75,80", as set from the
// environment) into []float64.
func cutScoresHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]float64(nil)) {
		return data, nil
	}
	s := data.(string)
	cuts := analysis.ParseThresholds(strings.ReplaceAll(s, ",", ";"))
	if strings.TrimSpace(s) != "" && len(cuts) == 0 {
		return nil, fmt.Errorf("invalid cut_scores: %q (use e.g. 75;77.5;80)", s)
	}
	return cuts, nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
// A .env file in the working directory is loaded into the environment first;
// a missing one is fine, a malformed one is an error.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	hook := mapstructure.ComposeDecodeHookFunc(
		cutScoresHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&c, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set validates value for key and stores it. List keys take "a,b" (selected_values) or
// "75;80" (cut_scores); an empty value clears them.
func (c *Global) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "group_column":
		c.GroupColumn = value
	case "decision_column":
		c.DecisionColumn = value
	case "decision_mode":
		m, ok := analysis.ParseMode(value)
		if !ok {
			return fmt.Errorf("invalid decision_mode: %s (use binary or score-threshold)", value)
		}
		c.DecisionMode = string(m)
	case "selected_values":
		c.SelectedValues = analysis.NormalizeSelectedValues(strings.Split(value, ","))
	case "cut_scores":
		cuts := analysis.ParseThresholds(value)
		if value != "" && len(cuts) == 0 {
			return fmt.Errorf("invalid cut_scores: %q (use e.g. 75;77.5;80)", value)
		}
		c.CutScores = cuts
	case "reference_group":
		c.ReferenceGroup = value
	case "cut_step":
		f, err := cast.ToFloat64E(value)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for cut_step: %v", value)
		}
		c.CutStep = f
	case "cut_rounding":
		r, ok := analysis.ParseRounding(value)
		if !ok {
			return fmt.Errorf("invalid cut_rounding: %s (use snap or round)", value)
		}
		c.CutRounding = string(r)
	case "four_fifths":
		f, err := cast.ToFloat64E(value)
		if err != nil || f <= 0 || f > 1 {
			return fmt.Errorf("invalid float for four_fifths: %v (must be in (0, 1])", value)
		}
		c.FourFifths = f
	case "small_sample_min":
		i, err := cast.ToIntE(value)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for small_sample_min: %v", value)
		}
		c.SmallSampleMin = i
	case "output_format":
		f, err := report.ParseFormat(value)
		if err != nil {
			return err
		}
		c.OutputFormat = string(f)
	case "log_level":
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
		c.LogLevel = strings.ToLower(value)
	case "batch_workers":
		i, err := cast.ToIntE(value)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for batch_workers: %v", value)
		}
		c.BatchWorkers = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the display form of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "group_column":
		return c.GroupColumn, nil
	case "decision_column":
		return c.DecisionColumn, nil
	case "decision_mode":
		return c.DecisionMode, nil
	case "selected_values":
		return strings.Join(c.SelectedValues, ","), nil
	case "cut_scores":
		parts := make([]string, len(c.CutScores))
		for i, f := range c.CutScores {
			parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		return strings.Join(parts, ";"), nil
	case "reference_group":
		return c.ReferenceGroup, nil
	case "cut_step":
		return cast.ToString(c.CutStep), nil
	case "cut_rounding":
		return c.CutRounding, nil
	case "four_fifths":
		return cast.ToString(c.FourFifths), nil
	case "small_sample_min":
		return cast.ToString(c.SmallSampleMin), nil
	case "output_format":
		return c.OutputFormat, nil
	case "log_level":
		return c.LogLevel, nil
	case "batch_workers":
		return cast.ToString(c.BatchWorkers), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// AnalysisOptions maps the stored defaults onto engine options.
func (c *Global) AnalysisOptions() analysis.Options {
	return analysis.Options{
		GroupColumn:    c.GroupColumn,
		DecisionColumn: c.DecisionColumn,
		Mode:           analysis.DecisionMode(c.DecisionMode),
		SelectedValues: append([]string(nil), c.SelectedValues...),
		Thresholds:     append([]float64(nil), c.CutScores...),
		ReferenceGroup: c.ReferenceGroup,
		FourFifths:     c.FourFifths,
		SmallSampleMin: c.SmallSampleMin,
	}
}
