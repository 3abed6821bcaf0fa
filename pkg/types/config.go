package types

// UnclosedPolicy selects what happens when the input ends while a record is
// still open.
type UnclosedPolicy string

const (
	// UnclosedFlush writes the partial record as one final output line.
	UnclosedFlush UnclosedPolicy = "flush"
	// UnclosedError fails the run.
	UnclosedError UnclosedPolicy = "error"
)

// Defaults applied when configuration leaves a field empty.
const (
	DefaultStartMarker    = "<Cli"
	DefaultEndMarker      = "</Cli>"
	DefaultProgressEvery  = 1000
	DefaultOutputSuffix   = "_ALTERADO"
	DefaultHistoryDir     = ".reflow"
	DefaultHistoryResults = 20
)

// Markers is the delimiter pair bounding one record.
type Markers struct {
	// Start is matched as a prefix (or substring for txt input). It carries
	// no closing ">" so that attributes on the opening tag still match.
	Start string `json:"start" yaml:"start"`

	// End is matched as a suffix (or substring for txt input).
	End string `json:"end" yaml:"end"`
}

// DefaultMarkers returns the <Cli ...> ... </Cli> pair.
func DefaultMarkers() Markers {
	return Markers{Start: DefaultStartMarker, End: DefaultEndMarker}
}

// ReflowConfig holds settings for the record extraction stage.
type ReflowConfig struct {
	Markers `yaml:",inline"`

	// ProgressEvery is the line cadence of progress updates (default 1000).
	ProgressEvery int `json:"progress_every" yaml:"progress_every"`

	// OutputSuffix is inserted before the input extension to name the
	// output file (default "_ALTERADO").
	OutputSuffix string `json:"output_suffix" yaml:"output_suffix"`

	// Unclosed selects the end-of-input policy for an open record.
	Unclosed UnclosedPolicy `json:"unclosed" yaml:"unclosed"`
}

// WithDefaults returns a copy of c with empty fields filled in.
func (c ReflowConfig) WithDefaults() ReflowConfig {
	if c.Start == "" {
		c.Start = DefaultStartMarker
	}
	if c.End == "" {
		c.End = DefaultEndMarker
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = DefaultProgressEvery
	}
	if c.OutputSuffix == "" {
		c.OutputSuffix = DefaultOutputSuffix
	}
	if c.Unclosed == "" {
		c.Unclosed = UnclosedFlush
	}
	return c
}

// HistoryConfig holds settings for the run history ledger.
type HistoryConfig struct {
	// Enabled controls whether runs are recorded.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding reflow.db.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default number of runs listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all configuration sections.
type Config struct {
	Reflow  ReflowConfig  `json:"reflow" yaml:"reflow"`
	History HistoryConfig `json:"history" yaml:"history"`
}
