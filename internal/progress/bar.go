// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"fmt"
	"io"
	"strings"
)

const barWidth = 25

// Bar renders percentage updates as a single terminal line rewritten in
// place with carriage returns:
//
//	input.xml  42% |██████████░░░░░░░░░░░░░░░|
//
// A newline is written once 100 is reached. Repeated percentages are not
// redrawn.
type Bar struct {
	w       io.Writer
	label   string
	last    int
	lastLen int
	done    bool
}

// NewBar returns a Bar labelled label that writes to w.
func NewBar(w io.Writer, label string) *Bar {
	return &Bar{w: w, label: label, last: -1}
}

// Func returns the Bar as a progress callback.
func (b *Bar) Func() Func {
	return b.Update
}

// Update redraws the bar for percent.
func (b *Bar) Update(percent int) {
	if b.done || percent == b.last {
		return
	}
	b.last = percent

	line := b.render(percent)
	if b.lastLen > 0 {
		fmt.Fprint(b.w, "\r"+strings.Repeat(" ", b.lastLen)+"\r")
	}
	fmt.Fprint(b.w, line)
	b.lastLen = len(line)

	if percent >= 100 {
		fmt.Fprint(b.w, "\n")
		b.lastLen = 0
		b.done = true
	}
}

func (b *Bar) render(percent int) string {
	filled := barWidth * percent / 100
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return fmt.Sprintf("%s %3d%% |%s%s|", b.label, percent,
		strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled))
}
