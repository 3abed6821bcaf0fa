// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one run as written by Export.
type ExportEntry struct {
	ID           string `yaml:"id"`
	StartedAt    string `yaml:"started_at"`
	DurationMS   int64  `yaml:"duration_ms"`
	InputPath    string `yaml:"input_path"`
	OutputPath   string `yaml:"output_path"`
	Format       string `yaml:"format"`
	TotalLines   int    `yaml:"total_lines"`
	LinesScanned int    `yaml:"lines_scanned"`
	Records      int    `yaml:"records"`
	Unclosed     bool   `yaml:"unclosed"`
	Status       string `yaml:"status"`
	Message      string `yaml:"message,omitempty"`
}

// ExportDocument is the top-level YAML document.
type ExportDocument struct {
	Runs []ExportEntry `yaml:"runs"`
}

// Export writes every recorded run to w as YAML, newest first.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	runs, err := s.query(ctx, 0)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	doc := ExportDocument{Runs: make([]ExportEntry, len(runs))}
	for i, r := range runs {
		doc.Runs[i] = ExportEntry{
			ID:           r.ID,
			StartedAt:    r.StartedAt.UTC().Format(time.RFC3339),
			DurationMS:   r.Duration.Milliseconds(),
			InputPath:    r.InputPath,
			OutputPath:   r.OutputPath,
			Format:       string(r.Format),
			TotalLines:   r.TotalLines,
			LinesScanned: r.LinesScanned,
			Records:      r.Records,
			Unclosed:     r.Unclosed,
			Status:       string(r.Status),
			Message:      r.Message,
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}
