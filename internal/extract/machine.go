// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/cli-reflow/pkg/types"
)

// State is the position of the Machine relative to a record.
type State int

const (
	// Outside means no record is open; lines are discarded.
	Outside State = iota
	// InsideRecord means a record is open and every line is buffered.
	InsideRecord
)

func (s State) String() string {
	switch s {
	case Outside:
		return "outside"
	case InsideRecord:
		return "inside-record"
	default:
		return "unknown"
	}
}

// Machine reassembles records that span several lines. Feed it trimmed lines
// in order; each closed record is passed to the emit callback as a single
// string with the buffered lines joined without separator.
type Machine struct {
	format  types.Format
	markers types.Markers
	emit    func(record string) error

	state State
	buf   []string
}

// NewMachine returns a Machine in the Outside state.
func NewMachine(format types.Format, markers types.Markers, emit func(record string) error) *Machine {
	return &Machine{format: format, markers: markers, emit: emit}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Feed processes one trimmed line.
func (m *Machine) Feed(line string) error {
	if m.startsRecord(line) {
		m.open()
	}
	if m.state != InsideRecord {
		return nil
	}
	m.buf = append(m.buf, line)
	if m.endsRecord(line) {
		return m.close()
	}
	return nil
}

// Flush emits the open record, if any, and returns to Outside. It reports
// whether a record was flushed.
func (m *Machine) Flush() (bool, error) {
	if m.state != InsideRecord {
		return false, nil
	}
	return true, m.close()
}

func (m *Machine) startsRecord(line string) bool {
	if strings.HasPrefix(line, m.markers.Start) {
		return true
	}
	return m.format.Substring() && strings.Contains(line, m.markers.Start)
}

func (m *Machine) endsRecord(line string) bool {
	if strings.HasSuffix(line, m.markers.End) {
		return true
	}
	return m.format.Substring() && strings.Contains(line, m.markers.End)
}

func (m *Machine) open() {
	m.state = InsideRecord
}

func (m *Machine) close() error {
	record := strings.Join(m.buf, "")
	clear(m.buf)
	m.buf = m.buf[:0]
	m.state = Outside
	return m.emit(record)
}
