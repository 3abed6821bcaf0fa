// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cli-reflow/internal/lines"
	"github.com/pdiddy/cli-reflow/pkg/types"
)

// setupInput writes content to a temp file named name and returns the input
// path and a sibling output path.
func setupInput(t *testing.T, name, content string) (in, out string) {
	t.Helper()
	dir := t.TempDir()
	in = filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(in, []byte(content), 0o644))
	return in, OutputPath(in, types.DefaultOutputSuffix)
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

type progressLog []int

func (p *progressLog) fn(percent int) { *p = append(*p, percent) }

func TestProcess(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		content      string
		want         string
		wantRecords  int
		wantUnclosed bool
	}{
		{
			name:        "xml record spanning lines",
			file:        "export.xml",
			content:     "<Cli>\nabc\n</Cli>\n",
			want:        "<Cli>abc</Cli>\n",
			wantRecords: 1,
		},
		{
			name:        "txt embedded markers",
			file:        "export.txt",
			content:     "0001<Cli>x</Cli>9999\n",
			want:        "0001<Cli>x</Cli>9999\n",
			wantRecords: 1,
		},
		{
			name:         "unclosed record flushed",
			file:         "export.xml",
			content:      "<Cli>\npartial",
			want:         "<Cli>partial\n",
			wantRecords:  1,
			wantUnclosed: true,
		},
		{
			name:        "uppercase extension",
			file:        "EXPORT.TXT",
			content:     "hdr <Cli>a\nb</Cli> ftr\n",
			want:        "hdr <Cli>ab</Cli> ftr\n",
			wantRecords: 1,
		},
		{
			name:        "indented xml with crlf",
			file:        "export.xml",
			content:     "<Doc>\r\n  <Cli cod=\"1\">\r\n    <A>1</A>\r\n  </Cli>\r\n  <Cli cod=\"2\"><A>2</A></Cli>\r\n</Doc>\r\n",
			want:        "<Cli cod=\"1\"><A>1</A></Cli>\n<Cli cod=\"2\"><A>2</A></Cli>\n",
			wantRecords: 2,
		},
		{
			name:        "no records",
			file:        "export.xml",
			content:     "<Doc>\n</Doc>\n",
			want:        "",
			wantRecords: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := setupInput(t, tt.file, tt.content)

			res, err := Process(in, out, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, readOutput(t, out))
			assert.Equal(t, tt.wantRecords, res.Records)
			assert.Equal(t, tt.wantUnclosed, res.Unclosed)
			assert.Equal(t, res.TotalLines, res.LinesScanned)
		})
	}
}

func TestProcessEmptyInput(t *testing.T) {
	in, out := setupInput(t, "empty.xml", "")

	var got progressLog
	res, err := Process(in, out, got.fn)
	require.NoError(t, err)
	assert.Equal(t, []int{100}, []int(got))
	assert.Equal(t, "", readOutput(t, out))
	assert.Equal(t, 0, res.LinesScanned)
	assert.Contains(t, res.Message(), "0 lines scanned")
}

func TestProcessProgressCadence(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 2500; i++ {
		fmt.Fprintf(&b, "<Cli>%d</Cli>\n", i)
	}
	in, out := setupInput(t, "big.xml", b.String())

	var got progressLog
	res, err := Process(in, out, got.fn)
	require.NoError(t, err)
	assert.Equal(t, []int{40, 80, 100, 100}, []int(got))
	assert.Equal(t, 2500, res.Records)
	assert.Equal(t, "processing complete: 2500 lines scanned, 2500 records written", res.Message())
}

func TestProcessCustomCadence(t *testing.T) {
	in, out := setupInput(t, "small.xml", "a\nb\nc\nd\n")

	var got progressLog
	_, err := Process(in, out, got.fn, WithProgressEvery(2))
	require.NoError(t, err)
	assert.Equal(t, []int{50, 100, 100}, []int(got))
}

func TestProcessIdempotent(t *testing.T) {
	in, out := setupInput(t, "export.txt", "x<Cli>\n1\n</Cli>\n<Cli>2\n")

	_, err := Process(in, out, nil)
	require.NoError(t, err)
	first := readOutput(t, out)

	_, err = Process(in, out, nil)
	require.NoError(t, err)
	assert.Equal(t, first, readOutput(t, out))
}

func TestProcessOutputProperties(t *testing.T) {
	content := strings.Join([]string{
		"<Export>",
		"<Cli>", "<Id>1</Id>", "</Cli>",
		"noise",
		"<Cli><Id>2</Id>", "</Cli>",
		"<Cli>", "<Id>3</Id>",
	}, "\n")
	in, out := setupInput(t, "export.xml", content)

	res, err := Process(in, out, nil)
	require.NoError(t, err)

	got := strings.Split(strings.TrimSuffix(readOutput(t, out), "\n"), "\n")
	require.Len(t, got, 3, "two closed records plus one trailing flush")
	for _, line := range got {
		assert.True(t, strings.HasPrefix(line, types.DefaultStartMarker), line)
	}
	assert.True(t, strings.HasSuffix(got[0], types.DefaultEndMarker))
	assert.True(t, strings.HasSuffix(got[1], types.DefaultEndMarker))
	assert.Equal(t, "<Cli><Id>3</Id>", got[2])
	assert.True(t, res.Unclosed)
}

func TestProcessCustomMarkers(t *testing.T) {
	in, out := setupInput(t, "export.xml", "<Reg>\nz\n</Reg>\n<Cli>ignored</Cli>\n")

	_, err := Process(in, out, nil, WithMarkers(types.Markers{Start: "<Reg", End: "</Reg>"}))
	require.NoError(t, err)
	assert.Equal(t, "<Reg>z</Reg>\n", readOutput(t, out))
}

func TestProcessStrictUnclosed(t *testing.T) {
	in, out := setupInput(t, "export.xml", "<Cli>a</Cli>\n<Cli>\npartial\n")

	var got progressLog
	_, err := Process(in, out, got.fn, WithUnclosedPolicy(types.UnclosedError))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProcessing)
	assert.ErrorIs(t, err, ErrUnclosedRecord)
	assert.Equal(t, "<Cli>a</Cli>\n", readOutput(t, out), "closed records are kept")
	assert.Equal(t, []int{100}, []int(got), "no final update after a failed pass")
}

func TestProcessMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.xml")

	_, err := Process(filepath.Join(dir, "missing.xml"), out, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output for a missing input")
}

func TestProcessInvalidUTF8(t *testing.T) {
	in, out := setupInput(t, "export.xml", "<Cli>\n\xff\n</Cli>\n")

	_, err := Process(in, out, nil)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, lines.ErrInvalidUTF8)
}

func TestProcessUnwritableOutput(t *testing.T) {
	in, _ := setupInput(t, "export.xml", "<Cli>a</Cli>\n")
	out := filepath.Join(t.TempDir(), "no-such-dir", "out.xml")

	_, err := Process(in, out, nil)
	assert.ErrorIs(t, err, ErrIO)
	assert.Contains(t, err.Error(), "creating output")
}

func TestProcessRefusesInputAsOutput(t *testing.T) {
	in, _ := setupInput(t, "export.xml", "<Cli>a</Cli>\n")

	_, err := Process(in, in, nil)
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, "<Cli>a</Cli>\n", readOutput(t, in), "input must be left intact")
}

func TestProcessEmptyMarkers(t *testing.T) {
	in, out := setupInput(t, "export.xml", "<Cli>a</Cli>\n")

	_, err := Process(in, out, nil, WithMarkers(types.Markers{Start: "<Cli"}))
	assert.ErrorIs(t, err, ErrProcessing)
}

func TestResultMessage(t *testing.T) {
	r := Result{LinesScanned: 12, Records: 3}
	assert.Equal(t, "processing complete: 12 lines scanned, 3 records written", r.Message())
	r.Unclosed = true
	assert.Equal(t, "processing complete: 12 lines scanned, 3 records written (last record unclosed)", r.Message())
}
