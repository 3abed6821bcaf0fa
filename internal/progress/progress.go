// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress computes and delivers coarse percentage updates for a
// line-oriented pass over a file of known length.
package progress

// Func receives a completion percentage in [0, 100]. It runs on the caller's
// goroutine and must not block. A nil Func discards updates.
type Func func(percent int)

// Report delivers percent to f if f is non-nil.
func (f Func) Report(percent int) {
	if f != nil {
		f(percent)
	}
}

// Due reports whether an update should be emitted after processed lines out
// of total: on every multiple of every, and on the last line.
func Due(processed, total, every int) bool {
	if every > 0 && processed%every == 0 {
		return true
	}
	return processed == total
}

// Percent returns processed/total as a truncated integer percentage clamped
// to [0, 100]. An empty input is complete by definition.
func Percent(processed, total int) int {
	if total <= 0 {
		return 100
	}
	p := processed * 100 / total
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Reporter applies the update cadence to a Func. It keeps no state between
// calls; both counters are supplied on each call.
type Reporter struct {
	Every int
	Fn    Func
}

// Line is called after each processed line.
func (r Reporter) Line(processed, total int) {
	if total <= 0 {
		return
	}
	if Due(processed, total, r.Every) {
		r.Fn.Report(Percent(processed, total))
	}
}

// Done emits the final 100 update. It is always called once after a
// successful pass, even if the last line already reported 100.
func (r Reporter) Done() {
	r.Fn.Report(100)
}
