package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/adimpact-cli/internal/config"
	"github.com/KaramelBytes/adimpact-cli/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "adimpact",
	Short: "Adverse impact analysis for hiring and selection data",
	Long: `adimpact screens CSV/TSV/XLSX selection data for disparate impact across demographic groups.
It applies the 4/5ths rule against a reference group, runs a chi-square test of the selection
table, and suggests cut scores for score-based decisions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := newLogger()
		cmd.SetContext(logger.WithContext(cmd.Context()))
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.adimpact/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
}

func newLogger() zerolog.Logger {
	level := zerolog.DebugLevel
	var levelErr error
	if !debug {
		name := ""
		if cfg != nil {
			name = cfg.LogLevel
		}
		level, levelErr = logging.ParseLevel(name)
	}
	logger := logging.New(os.Stderr, level)
	if levelErr != nil {
		logger.Warn().Err(levelErr).Msg("using default log level")
	}
	return logger
}

// currentConfig returns the loaded configuration or the built-in defaults.
func currentConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return &cfgpkg.Global{}
	}
	return c
}
