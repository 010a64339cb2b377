// Package cli wires the analyses into a cobra command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sartorproj/gocumdiff/config"
)

const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagOutputDir = "output-dir"
	flagDataDir   = "data-dir"
	flagSeed      = "seed"

	logFormatJSON = "json"
	logFormatText = "text"
)

// NewRootCmd returns the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cumdiff",
		Short: "Cumulative-difference analyses of subpopulation deviations",
		Long: "cumdiff computes cumulative differences between subpopulations " +
			"of survey datasets, plots the results, and reports Kuiper and " +
			"Kolmogorov-Smirnov statistics with their P-values.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "path to a YAML config file")
	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "logging level")
	rootCmd.PersistentFlags().String(flagLogFormat, logFormatText, "logging format (text|json)")
	rootCmd.PersistentFlags().String(flagOutputDir, ".", "root directory for the result trees")
	rootCmd.PersistentFlags().String(flagDataDir, ".", "directory for downloaded datasets")
	rootCmd.PersistentFlags().Int64(flagSeed, 543216789, "seed for the score-perturbing generator")

	rootCmd.AddCommand(
		getBRFSSCmd(),
		getDDSCmd(),
		getSyntheticCmd(),
		getVersionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger for a subcommand.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfgFile, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

func newLogger(levelStr, formatStr string) (zerolog.Logger, error) {
	logLvl, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.Nop(), err
	}

	var logWriter io.Writer
	switch strings.ToLower(formatStr) {
	case logFormatJSON:
		logWriter = os.Stderr
	case logFormatText:
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid logging format: %s", formatStr)
	}

	return zerolog.New(logWriter).Level(logLvl).With().Timestamp().Logger(), nil
}
