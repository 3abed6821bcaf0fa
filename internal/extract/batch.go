// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/pdiddy/cli-reflow/internal/progress"
	"github.com/pdiddy/cli-reflow/pkg/types"
)

// OutputPath derives the output file name by inserting suffix before the
// extension of input: "dir/export.xml" becomes "dir/export_ALTERADO.xml".
func OutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}

// BatchOptions configures ProcessBatch.
type BatchOptions struct {
	Config types.ReflowConfig

	// Output overrides the derived output path. It is honoured only when
	// exactly one input is given.
	Output string

	// Progress returns the progress callback for one input. Nil disables
	// progress reporting.
	Progress func(input string) progress.Func

	// OnRun is called after every run, successful or not.
	OnRun func(run types.RunRecord)

	Log logr.Logger
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Succeeded int
	Failed    int
}

// Total returns the number of inputs processed.
func (r BatchResult) Total() int {
	return r.Succeeded + r.Failed
}

// HasFailures reports whether any input failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ProcessBatch runs Process over inputs one at a time, printing a status
// line per input and a summary to w. A failing input does not stop the
// batch.
func ProcessBatch(inputs []string, opts BatchOptions, w io.Writer) BatchResult {
	cfg := opts.Config.WithDefaults()
	log := opts.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	var result BatchResult
	for _, input := range inputs {
		output := opts.Output
		if output == "" || len(inputs) != 1 {
			output = OutputPath(input, cfg.OutputSuffix)
		}

		var onProgress progress.Func
		if opts.Progress != nil {
			onProgress = opts.Progress(input)
		}

		started := time.Now()
		res, err := Process(input, output, onProgress, WithConfig(cfg), WithLogger(log))
		run := runRecord(res, started, err)
		run.InputPath, run.OutputPath = input, output

		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed: %s (%v)\n", input, err)
		} else {
			result.Succeeded++
			fmt.Fprintf(w, "ok:     %s -> %s (%s)\n", input, output, res.Message())
		}
		if opts.OnRun != nil {
			opts.OnRun(run)
		}
	}

	if len(inputs) > 1 {
		fmt.Fprintf(w, "\nBatch summary: %d succeeded, %d failed (total: %d)\n",
			result.Succeeded, result.Failed, result.Total())
	}
	return result
}

func runRecord(res Result, started time.Time, err error) types.RunRecord {
	run := types.RunRecord{
		StartedAt:    started.UTC(),
		Duration:     time.Since(started),
		Format:       res.Format,
		TotalLines:   res.TotalLines,
		LinesScanned: res.LinesScanned,
		Records:      res.Records,
		Unclosed:     res.Unclosed,
		Status:       types.RunSucceeded,
		Message:      res.Message(),
	}
	if err != nil {
		run.Status = types.RunFailed
		run.Message = err.Error()
	}
	return run
}
