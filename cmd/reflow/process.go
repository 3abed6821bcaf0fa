// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cli-reflow/internal/extract"
	"github.com/pdiddy/cli-reflow/internal/history"
	"github.com/pdiddy/cli-reflow/internal/progress"
	"github.com/pdiddy/cli-reflow/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process <file>...",
	Short: "Rewrite export files with one record per line",
	Long: `Process rewrites each input so that every <Cli> ... </Cli> record occupies
one output line. Files ending in .txt also match markers embedded anywhere in
a line; every other extension requires the start marker at the beginning and
the end marker at the end of the trimmed line.

Outputs are written next to each input with the configured suffix inserted
before the extension (export.xml -> export_ALTERADO.xml). Files are processed
one after another.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "" && len(args) != 1 {
		return fmt.Errorf("--output requires exactly one input file, got %d", len(args))
	}

	cfg := reflowConfig()
	if strict, _ := cmd.Flags().GetBool("strict-unclosed"); strict {
		cfg.Unclosed = types.UnclosedError
	}
	if cfg.Unclosed != types.UnclosedFlush && cfg.Unclosed != types.UnclosedError {
		return fmt.Errorf("invalid unclosed policy %q: want %q or %q", cfg.Unclosed, types.UnclosedFlush, types.UnclosedError)
	}

	opts := extract.BatchOptions{
		Config: cfg,
		Output: output,
		Log:    logger,
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		opts.Progress = func(input string) progress.Func {
			return progress.NewBar(os.Stderr, filepath.Base(input)).Func()
		}
	}

	hcfg := historyConfig()
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		hcfg.Enabled = false
	}
	if hcfg.Enabled {
		store, err := history.NewStore(hcfg)
		if err != nil {
			logger.Error(err, "history disabled for this invocation", "dir", hcfg.Dir)
		} else {
			defer store.Close()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			opts.OnRun = func(run types.RunRecord) {
				id, err := store.Record(ctx, run)
				if err != nil {
					logger.Error(err, "recording run", "input", run.InputPath)
					return
				}
				logger.V(1).Info("run recorded", "id", id, "status", run.Status)
			}
		}
	}

	result := extract.ProcessBatch(args, opts, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d of %d file(s) failed", result.Failed, result.Total())
	}
	return nil
}

func init() {
	processCmd.Flags().StringP("output", "o", "", "output path (single input only; default derives from --suffix)")
	processCmd.Flags().String("suffix", types.DefaultOutputSuffix, "suffix inserted before the input extension to name the output")
	processCmd.Flags().String("start-marker", types.DefaultStartMarker, "prefix that opens a record")
	processCmd.Flags().String("end-marker", types.DefaultEndMarker, "suffix that closes a record")
	processCmd.Flags().Int("progress-every", types.DefaultProgressEvery, "report progress every N lines")
	processCmd.Flags().Bool("strict-unclosed", false, "fail instead of flushing a record left open at end of input")
	processCmd.Flags().BoolP("quiet", "q", false, "do not draw the progress bar")
	processCmd.Flags().Bool("no-history", false, "do not record this run in the history ledger")

	_ = viper.BindPFlag("reflow.output_suffix", processCmd.Flags().Lookup("suffix"))
	_ = viper.BindPFlag("reflow.start_marker", processCmd.Flags().Lookup("start-marker"))
	_ = viper.BindPFlag("reflow.end_marker", processCmd.Flags().Lookup("end-marker"))
	_ = viper.BindPFlag("reflow.progress_every", processCmd.Flags().Lookup("progress-every"))

	rootCmd.AddCommand(processCmd)
}
