// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cli-reflow/internal/history"
	"github.com/pdiddy/cli-reflow/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or export recorded runs",
	Long: `History lists recent runs from the local SQLite ledger, newest first.
Use --export to write every recorded run to a YAML file ("-" for stdout).`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		return exportHistory(ctx, store, exportPath, cmd.OutOrStdout())
	}

	runs, err := store.List(ctx, viper.GetInt("history.max_results"))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(cmd.OutOrStdout(), runs, jsonOutput)
}

func exportHistory(ctx context.Context, store *history.Store, path string, stdout io.Writer) error {
	if path == "-" {
		return store.Export(ctx, stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := store.Export(ctx, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	fmt.Fprintf(stdout, "exported history to %s\n", path)
	return nil
}

func formatHistoryOutput(w io.Writer, runs []types.RunRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-9s  %-5s  %8s  %8s  %s\n",
		"Started", "Status", "Fmt", "Lines", "Records", "Input")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range runs {
		input := r.InputPath
		if len(input) > 40 {
			input = "..." + input[len(input)-37:]
		}
		records := fmt.Sprintf("%d", r.Records)
		if r.Unclosed {
			records += "*"
		}
		fmt.Fprintf(w, "%-20s  %-9s  %-5s  %8d  %8s  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.Format, r.LinesScanned, records, input)
	}

	fmt.Fprintf(w, "\n%d runs (* = last record unclosed)\n", len(runs))
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", types.DefaultHistoryResults, "maximum number of runs to list")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")
	historyCmd.Flags().String("export", "", "write all runs as YAML to this file (- for stdout)")

	_ = viper.BindPFlag("history.max_results", historyCmd.Flags().Lookup("limit"))

	rootCmd.AddCommand(historyCmd)
}
