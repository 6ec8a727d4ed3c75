package subs

import (
	"fmt"
	"strings"
	"time"

	"muxkit/internal/timestamps"
)

// OOBPolicy decides what happens to a line whose shifted timing falls below
// zero.
type OOBPolicy int

const (
	// OOBError fails the whole shift, reporting the offending line.
	OOBError OOBPolicy = iota
	// OOBSetToZero clamps both start and end to zero, disabling the line.
	OOBSetToZero
	// OOBMaxToZero clamps only the negative component; an end clamped under
	// a still-valid start is kept as an intentional inverted marker.
	OOBMaxToZero
	// OOBDropLine removes the line from the document.
	OOBDropLine
)

// OutOfBoundsError reports a line pushed before the start of the timeline
// under the OOBError policy, carrying its original timing for diagnostics.
type OutOfBoundsError struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("line %q (%s - %s) shifted out of bounds", e.Text, FormatTime(e.Start), FormatTime(e.End))
}

// DefaultDialogueStyles is the usual allow-list for dialogue-wide operations.
var DefaultDialogueStyles = []string{"Default", "Main", "Alt", "Overlap", "Flashback", "Top", "Italics"}

// ShiftTime shifts one event by a wall-clock delta. The returned flags report
// whether start and end respectively landed below zero; the event keeps the
// raw (possibly negative) values so the caller can apply a policy.
func ShiftTime(ev Event, delta time.Duration) (Event, bool, bool) {
	ev.Start += delta
	ev.End += delta
	return ev, ev.Start < 0, ev.End < 0
}

// ShiftFrames shifts one event by a frame offset. Start and end are mapped
// to frames per their respective conventions, offset, and converted back to
// authoring-tool centered times at centisecond precision. An end time at or
// before the first frame's timestamp collapses the end frame to the start
// frame so that lines overlapping the timeline start never acquire negative
// length.
func ShiftFrames(ev Event, frames int, ts timestamps.Timestamps) (Event, bool, bool) {
	startFrame := ts.TimeToFrame(ev.Start.Milliseconds(), timestamps.TimeStart)
	endFrame := ts.TimeToFrame(ev.End.Milliseconds(), timestamps.TimeEnd)
	if endFrame < 0 {
		endFrame = startFrame
	}

	startFrame += frames
	endFrame += frames
	startOOB := startFrame < 0
	endOOB := endFrame < 0

	ev.Start = centeredDuration(ts, max(startFrame, 0), timestamps.TimeStart)
	ev.End = centeredDuration(ts, max(endFrame, 0), timestamps.TimeEnd)
	return ev, startOOB, endOOB
}

func centeredDuration(ts timestamps.Timestamps, frame int, tt timestamps.TimeType) time.Duration {
	ms := ts.CenteredTime(frame, tt, timestamps.PrecisionCentisecond)
	return time.Duration(ms) * time.Millisecond
}

// ShiftOptions configures a whole-document shift.
type ShiftOptions struct {
	// Policy handles lines that land before time zero. Default is OOBError.
	Policy OOBPolicy
	// Styles restricts the shift to events whose style matches the
	// allow-list (case-insensitive). Empty means every event.
	Styles []string
}

// ShiftByTime shifts every (allowed) event by a wall-clock delta.
func (d *Document) ShiftByTime(delta time.Duration, opts ShiftOptions) error {
	return d.shiftEvents(opts, func(ev Event) (Event, bool, bool) {
		return ShiftTime(ev, delta)
	})
}

// ShiftByFrames shifts every (allowed) event by a frame offset.
func (d *Document) ShiftByFrames(frames int, ts timestamps.Timestamps, opts ShiftOptions) error {
	return d.shiftEvents(opts, func(ev Event) (Event, bool, bool) {
		return ShiftFrames(ev, frames, ts)
	})
}

// Snap re-times events onto exact frame boundaries by shifting them zero
// frames, fixing lines authored slightly off the frame grid. Styles defaults
// to the usual dialogue styles when nil.
func (d *Document) Snap(ts timestamps.Timestamps, styles []string) error {
	if styles == nil {
		styles = DefaultDialogueStyles
	}
	return d.ShiftByFrames(0, ts, ShiftOptions{Policy: OOBError, Styles: styles})
}

func (d *Document) shiftEvents(opts ShiftOptions, shift func(Event) (Event, bool, bool)) error {
	allowed := styleSet(opts.Styles)
	out := make([]Event, 0, len(d.Events))
	for _, ev := range d.Events {
		if allowed != nil && !allowed[strings.ToLower(ev.Style)] {
			out = append(out, ev)
			continue
		}
		shifted, startOOB, endOOB := shift(ev)
		if !startOOB && !endOOB {
			out = append(out, shifted)
			continue
		}
		switch opts.Policy {
		case OOBError:
			// The document is left untouched on error.
			return &OutOfBoundsError{Text: ev.Text, Start: ev.Start, End: ev.End}
		case OOBSetToZero:
			shifted.Start = 0
			shifted.End = 0
			out = append(out, shifted)
		case OOBMaxToZero:
			if startOOB {
				shifted.Start = 0
			}
			if endOOB {
				shifted.End = 0
			}
			out = append(out, shifted)
		case OOBDropLine:
			// Skip the line entirely.
		}
	}
	d.Events = out
	return nil
}

func styleSet(styles []string) map[string]bool {
	if len(styles) == 0 {
		return nil
	}
	set := make(map[string]bool, len(styles))
	for _, s := range styles {
		set[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return set
}
