// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract rewrites bank export files so that every delimited record
// occupies exactly one output line.
//
// A record opens on a line carrying the start marker and closes on a line
// carrying the end marker. XML input anchors the markers to the start and
// end of the trimmed line; TXT input also accepts them anywhere in the line.
// Lines outside a record are dropped.
package extract

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/pdiddy/cli-reflow/internal/lines"
	"github.com/pdiddy/cli-reflow/internal/progress"
	"github.com/pdiddy/cli-reflow/pkg/types"
)

var (
	// ErrIO covers an input that cannot be opened or decoded and an output
	// that cannot be created.
	ErrIO = errors.New("io error")

	// ErrProcessing covers any failure during the extraction pass.
	ErrProcessing = errors.New("processing error")

	// ErrUnclosedRecord is wrapped in ErrProcessing when the input ends
	// inside a record and the policy is types.UnclosedError.
	ErrUnclosedRecord = errors.New("input ended inside an unclosed record")
)

// Result describes a completed run.
type Result struct {
	InputPath  string
	OutputPath string
	Format     types.Format

	// TotalLines is the line count of the counting pass.
	TotalLines int
	// LinesScanned is the number of lines visited by the extraction pass.
	LinesScanned int
	// Records is the number of lines written to the output.
	Records int
	// Unclosed is set when the last record was flushed without its end marker.
	Unclosed bool
}

// Message is the human-readable success message.
func (r Result) Message() string {
	msg := fmt.Sprintf("processing complete: %d lines scanned, %d records written", r.LinesScanned, r.Records)
	if r.Unclosed {
		msg += " (last record unclosed)"
	}
	return msg
}

type options struct {
	markers types.Markers
	every   int
	policy  types.UnclosedPolicy
	log     logr.Logger
}

// Option configures Process.
type Option func(o *options)

// WithMarkers overrides the <Cli / </Cli> delimiter pair.
func WithMarkers(m types.Markers) Option {
	return func(o *options) {
		o.markers = m
	}
}

// WithProgressEvery sets the progress cadence in lines.
func WithProgressEvery(n int) Option {
	return func(o *options) {
		o.every = n
	}
}

// WithUnclosedPolicy selects how an open record at end of input is handled.
func WithUnclosedPolicy(p types.UnclosedPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l logr.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithConfig applies every field of cfg.
func WithConfig(cfg types.ReflowConfig) Option {
	return func(o *options) {
		cfg = cfg.WithDefaults()
		o.markers = cfg.Markers
		o.every = cfg.ProgressEvery
		o.policy = cfg.Unclosed
	}
}

// Process reads inputPath twice, once to count lines and once to extract
// records, and writes one record per line to outputPath, which is created
// or truncated. onProgress, which may be nil, receives percentages at the
// configured cadence and a final 100.
//
// Errors wrap ErrIO or ErrProcessing along with the underlying cause.
func Process(inputPath, outputPath string, onProgress progress.Func, opts ...Option) (Result, error) {
	o := options{
		markers: types.DefaultMarkers(),
		every:   types.DefaultProgressEvery,
		policy:  types.UnclosedFlush,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.markers.Start == "" || o.markers.End == "" {
		return Result{}, fmt.Errorf("%w: start and end markers must be non-empty", ErrProcessing)
	}

	res := Result{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Format:     types.FormatOf(inputPath),
	}
	log := o.log.WithValues("input", inputPath, "format", res.Format)

	total, err := lines.Count(inputPath)
	if err != nil {
		return res, fmt.Errorf("%w: counting lines: %w", ErrIO, err)
	}
	res.TotalLines = total
	log.V(1).Info("counted lines", "total", total)

	if err := checkDistinct(inputPath, outputPath); err != nil {
		return res, err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return res, fmt.Errorf("%w: creating output: %w", ErrIO, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	m := NewMachine(res.Format, o.markers, func(record string) error {
		if _, err := w.WriteString(record); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		res.Records++
		log.V(2).Info("record written", "record", res.Records, "line", res.LinesScanned, "bytes", len(record))
		return nil
	})
	rep := progress.Reporter{Every: o.every, Fn: onProgress}

	err = lines.ForEach(inputPath, func(i int, line string) error {
		res.LinesScanned = i
		if err := m.Feed(line); err != nil {
			return err
		}
		rep.Line(i, total)
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	var unclosed error
	if m.State() == InsideRecord {
		if o.policy == types.UnclosedError {
			unclosed = fmt.Errorf("%w: %w", ErrProcessing, ErrUnclosedRecord)
		} else {
			flushed, err := m.Flush()
			if err != nil {
				return res, fmt.Errorf("%w: %w", ErrProcessing, err)
			}
			res.Unclosed = flushed
			log.Info("flushed unclosed trailing record", "records", res.Records)
		}
	}

	// Records closed before an unclosed tail are kept on disk either way.
	if err := w.Flush(); err != nil {
		return res, fmt.Errorf("%w: flushing output: %w", ErrProcessing, err)
	}
	if err := out.Close(); err != nil {
		return res, fmt.Errorf("%w: closing output: %w", ErrProcessing, err)
	}
	if unclosed != nil {
		return res, unclosed
	}

	rep.Done()
	log.V(1).Info("processing complete", "lines", res.LinesScanned, "records", res.Records)
	return res, nil
}

// checkDistinct refuses an output path that names the input file, which
// would be truncated before it is read.
func checkDistinct(inputPath, outputPath string) error {
	in, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	o, err := os.Stat(outputPath)
	if err != nil {
		return nil
	}
	if os.SameFile(in, o) {
		return fmt.Errorf("%w: output %s is the input file", ErrIO, outputPath)
	}
	return nil
}
