// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the reflow CLI, which rewrites bank
// export files so that every <Cli> record sits on a single line.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bombsimon/logrusr/v3"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cli-reflow/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in PersistentPreRunE from --verbose.
var logger = logr.Discard()

// rootCmd is the base command for the reflow CLI.
var rootCmd = &cobra.Command{
	Use:   "reflow",
	Short: "Rewrite bank export files with one <Cli> record per line",
	Long: `reflow reads XML or fixed-width TXT bank exports and writes a copy in
which every <Cli> ... </Cli> record, however many lines it spans in the
input, occupies exactly one output line. Lines outside records are dropped.

Each run is recorded in a local history ledger that the history subcommand
lists and exports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logger = newLogger(verbosity)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reflow.yaml or ~/.config/reflow/config.yaml)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (repeatable)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reflow")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "reflow"))
		}
	}

	viper.SetDefault("reflow.start_marker", types.DefaultStartMarker)
	viper.SetDefault("reflow.end_marker", types.DefaultEndMarker)
	viper.SetDefault("reflow.progress_every", types.DefaultProgressEvery)
	viper.SetDefault("reflow.output_suffix", types.DefaultOutputSuffix)
	viper.SetDefault("reflow.unclosed", string(types.UnclosedFlush))
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.dir", types.DefaultHistoryDir)
	viper.SetDefault("history.max_results", types.DefaultHistoryResults)

	viper.SetEnvPrefix("REFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns a logr.Logger backed by logrus on stderr. Verbosity 0
// logs info, 1 adds V(1) debug output, 2 and above add V(2) trace output.
func newLogger(verbosity int) logr.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case verbosity >= 2:
		l.SetLevel(logrus.TraceLevel)
	case verbosity == 1:
		l.SetLevel(logrus.DebugLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return logrusr.New(l).WithName("reflow")
}

// reflowConfig reads the extraction settings from viper.
func reflowConfig() types.ReflowConfig {
	return types.ReflowConfig{
		Markers: types.Markers{
			Start: viper.GetString("reflow.start_marker"),
			End:   viper.GetString("reflow.end_marker"),
		},
		ProgressEvery: viper.GetInt("reflow.progress_every"),
		OutputSuffix:  viper.GetString("reflow.output_suffix"),
		Unclosed:      types.UnclosedPolicy(viper.GetString("reflow.unclosed")),
	}.WithDefaults()
}

// historyConfig reads the history ledger settings from viper.
func historyConfig() types.HistoryConfig {
	return types.HistoryConfig{
		Enabled:    viper.GetBool("history.enabled"),
		Dir:        viper.GetString("history.dir"),
		MaxResults: viper.GetInt("history.max_results"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
