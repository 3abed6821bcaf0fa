// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus is the outcome of processing one input file.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunRecord is one entry of the run history ledger.
type RunRecord struct {
	// ID is a UUID assigned when the run is recorded.
	ID string `json:"id" yaml:"id"`

	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	InputPath  string `json:"input_path" yaml:"input_path"`
	OutputPath string `json:"output_path" yaml:"output_path"`
	Format     Format `json:"format" yaml:"format"`

	// TotalLines is the line count from the counting pass.
	TotalLines int `json:"total_lines" yaml:"total_lines"`

	// LinesScanned is the number of physical lines visited by the extraction pass.
	LinesScanned int `json:"lines_scanned" yaml:"lines_scanned"`

	// Records is the number of output lines written.
	Records int `json:"records" yaml:"records"`

	// Unclosed is set when a trailing open record was flushed.
	Unclosed bool `json:"unclosed" yaml:"unclosed"`

	Status  RunStatus `json:"status" yaml:"status"`
	Message string    `json:"message" yaml:"message"`
}
