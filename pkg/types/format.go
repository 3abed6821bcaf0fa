// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for cli-reflow: input
// formats, marker configuration and run history records.
package types

import (
	"path/filepath"
	"strings"
)

// Format classifies an input file and selects the marker matching rule.
type Format string

const (
	// FormatXML anchors markers: the start must prefix the trimmed line and
	// the end must suffix it.
	FormatXML Format = "xml"

	// FormatTXT also accepts markers anywhere in the line, since fixed-width
	// exports may carry columns before the tag.
	FormatTXT Format = "txt"

	// FormatOther is any other extension. It follows the XML rule.
	FormatOther Format = "other"
)

// FormatOf derives the format from the extension of path, case-insensitively.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatXML
	case ".txt":
		return FormatTXT
	default:
		return FormatOther
	}
}

// Substring reports whether markers may match anywhere in a line.
func (f Format) Substring() bool {
	return f == FormatTXT
}
