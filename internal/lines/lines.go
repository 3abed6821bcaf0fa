// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lines reads UTF-8 text files as a sequence of trimmed lines.
// Every call opens the file afresh; nothing is cached between passes.
package lines

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when a line cannot be decoded as UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

const bom = "\ufeff"

// Count returns the number of lines in the file at path. A final line
// without a trailing newline is counted; an empty file has zero lines.
func Count(path string) (int, error) {
	n := 0
	err := scan(path, func(string) error {
		n++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ForEach calls visit with the 1-based index and trimmed content of every
// line in the file at path, in order. A non-nil error from visit stops the
// pass and is returned unchanged.
func ForEach(path string, visit func(index int, line string) error) error {
	index := 0
	return scan(path, func(raw string) error {
		index++
		if index == 1 {
			raw = strings.TrimPrefix(raw, bom)
		}
		return visit(index, strings.TrimSpace(raw))
	})
}

// scan feeds each raw line of the file, without its newline, to fn.
func scan(path string, fn func(raw string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	lineNo := 0
	for {
		raw, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if raw == "" && err != nil {
			return nil
		}
		lineNo++
		if !utf8.ValidString(raw) {
			return fmt.Errorf("decoding %s line %d: %w", path, lineNo, ErrInvalidUTF8)
		}
		if ferr := fn(strings.TrimSuffix(raw, "\n")); ferr != nil {
			return ferr
		}
		if err != nil {
			return nil
		}
	}
}
